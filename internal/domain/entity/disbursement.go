package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// B2C command identifiers accepted by Daraja.
const (
	CommandSalaryPayment    = "SalaryPayment"
	CommandBusinessPayment  = "BusinessPayment"
	CommandPromotionPayment = "PromotionPayment"
)

// B2B command identifiers accepted by Daraja.
const (
	CommandBusinessPayBill            = "BusinessPayBill"
	CommandBusinessBuyGoods           = "BusinessBuyGoods"
	CommandDisburseFundsToBusiness    = "DisburseFundsToBusiness"
	CommandBusinessToBusinessTransfer = "BusinessToBusinessTransfer"
)

// IsValidB2CCommand reports whether commandID names a supported B2C flow.
func IsValidB2CCommand(commandID string) bool {
	switch commandID {
	case CommandSalaryPayment, CommandBusinessPayment, CommandPromotionPayment:
		return true
	}
	return false
}

// IsValidB2BCommand reports whether commandID names a supported B2B flow.
func IsValidB2BCommand(commandID string) bool {
	switch commandID {
	case CommandBusinessPayBill, CommandBusinessBuyGoods,
		CommandDisburseFundsToBusiness, CommandBusinessToBusinessTransfer:
		return true
	}
	return false
}

// B2CTransaction represents a business-to-customer disbursement. Daraja
// issues ConversationID synchronously; the outcome arrives later on the
// result or timeout callback.
type B2CTransaction struct {
	ID                       string
	ConversationID           string
	OriginatorConversationID string
	AmountCents              int64
	PhoneNumber              string
	CommandID                string
	Remarks                  string
	Occasion                 string
	Status                   TransactionStatus
	ResultCode               *int
	ResultDesc               string
	MpesaTransactionID       string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// NewB2CTransaction builds a PENDING B2C record from validated inputs.
func NewB2CTransaction(
	conversationID string,
	originatorConversationID string,
	amount float64,
	phoneNumber string,
	commandID string,
	remarks string,
	occasion string,
	timeProvider coreport.TimeProvider,
) (*B2CTransaction, error) {
	if conversationID == "" {
		return nil, errs.ErrMissingField
	}
	if !IsValidB2CCommand(commandID) {
		return nil, fmt.Errorf("%w: use SalaryPayment, BusinessPayment, or PromotionPayment",
			errs.ErrInvalidCommandID)
	}

	amountCents, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	msisdn, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &B2CTransaction{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: originatorConversationID,
		AmountCents:              amountCents,
		PhoneNumber:              msisdn,
		CommandID:                commandID,
		Remarks:                  remarks,
		Occasion:                 occasion,
		Status:                   StatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}

// B2BTransaction represents a business-to-business payment between
// shortcodes.
type B2BTransaction struct {
	ID                       string
	ConversationID           string
	OriginatorConversationID string
	AmountCents              int64
	PartyA                   string
	PartyB                   string
	CommandID                string
	AccountReference         string
	Remarks                  string
	Status                   TransactionStatus
	ResultCode               *int
	ResultDesc               string
	MpesaTransactionID       string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// NewB2BTransaction builds a PENDING B2B record from validated inputs.
func NewB2BTransaction(
	conversationID string,
	originatorConversationID string,
	amount float64,
	partyA string,
	partyB string,
	commandID string,
	accountReference string,
	remarks string,
	timeProvider coreport.TimeProvider,
) (*B2BTransaction, error) {
	if conversationID == "" || partyB == "" {
		return nil, errs.ErrMissingField
	}
	if !IsValidB2BCommand(commandID) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCommandID, commandID)
	}

	amountCents, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &B2BTransaction{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: originatorConversationID,
		AmountCents:              amountCents,
		PartyA:                   partyA,
		PartyB:                   partyB,
		CommandID:                commandID,
		AccountReference:         accountReference,
		Remarks:                  remarks,
		Status:                   StatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}
