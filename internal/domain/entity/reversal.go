package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// Reversal represents a request to reverse a completed M-Pesa transaction.
// It references the original receipt number and follows the same async
// lifecycle as the other conversation-keyed kinds.
type Reversal struct {
	ID                       string
	ConversationID           string
	OriginatorConversationID string
	TransactionID            string // receipt number of the transaction being reversed
	AmountCents              int64
	ReceiverParty            string
	Remarks                  string
	Occasion                 string
	Status                   TransactionStatus
	ResultCode               *int
	ResultDesc               string
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// NewReversal builds a PENDING reversal record.
func NewReversal(
	conversationID string,
	originatorConversationID string,
	transactionID string,
	amount float64,
	receiverParty string,
	remarks string,
	occasion string,
	timeProvider coreport.TimeProvider,
) (*Reversal, error) {
	if conversationID == "" || transactionID == "" || receiverParty == "" {
		return nil, errs.ErrMissingField
	}

	amountCents, err := ValidateReversalAmount(amount)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Reversal{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: originatorConversationID,
		TransactionID:            transactionID,
		AmountCents:              amountCents,
		ReceiverParty:            receiverParty,
		Remarks:                  remarks,
		Occasion:                 occasion,
		Status:                   StatusPending,
		CreatedAt:                now,
		UpdatedAt:                now,
	}, nil
}
