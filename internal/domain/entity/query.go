package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// BalanceQuery represents an account balance enquiry. The balance itself
// only arrives on the asynchronous result callback.
type BalanceQuery struct {
	ID                       string
	ConversationID           string
	OriginatorConversationID string
	PartyA                   string
	IdentifierType           string
	Remarks                  string
	Status                   TransactionStatus
	ResultCode               *int
	ResultDesc               string
	AccountBalance           string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// NewBalanceQuery builds a PENDING balance enquiry record.
func NewBalanceQuery(
	conversationID string,
	originatorConversationID string,
	partyA string,
	identifierType string,
	remarks string,
	timeProvider coreport.TimeProvider,
) (*BalanceQuery, error) {
	if conversationID == "" || partyA == "" {
		return nil, errs.ErrMissingField
	}

	now := timeProvider.Now()
	return &BalanceQuery{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: originatorConversationID,
		PartyA:                   partyA,
		IdentifierType:           identifierType,
		Remarks:                  remarks,
		Status:                   StatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}

// StatusQuery represents a transaction status enquiry against an M-Pesa
// receipt number.
type StatusQuery struct {
	ID                       string
	ConversationID           string
	OriginatorConversationID string
	TransactionID            string
	PartyA                   string
	IdentifierType           string
	Remarks                  string
	Occasion                 string
	Status                   TransactionStatus
	ResultCode               *int
	ResultDesc               string
	ReceiptNumber            string
	TransactionData          string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// NewStatusQuery builds a PENDING status enquiry record.
func NewStatusQuery(
	conversationID string,
	originatorConversationID string,
	transactionID string,
	partyA string,
	identifierType string,
	remarks string,
	occasion string,
	timeProvider coreport.TimeProvider,
) (*StatusQuery, error) {
	if conversationID == "" || transactionID == "" || partyA == "" {
		return nil, errs.ErrMissingField
	}

	now := timeProvider.Now()
	return &StatusQuery{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: originatorConversationID,
		TransactionID:            transactionID,
		PartyA:                   partyA,
		IdentifierType:           identifierType,
		Remarks:                  remarks,
		Occasion:                 occasion,
		Status:                   StatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}
