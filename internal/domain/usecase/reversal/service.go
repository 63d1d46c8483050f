package reversal

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
)

// Service implements the transaction reversal flow. Reversals share the
// async result/timeout lifecycle with the other conversation-keyed kinds.
type Service struct {
	client       darajaport.Client
	repo         persistence.ReversalRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a reversal service with explicit dependencies.
func NewService(
	client darajaport.Client,
	repo persistence.ReversalRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		client:       client,
		repo:         repo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Request carries the form fields for a transaction reversal.
type Request struct {
	TransactionID string
	Amount        float64
	ReceiverParty string
	Remarks       string
	Occasion      string
}

// Reverse validates and initiates a reversal of the named transaction,
// storing a PENDING record keyed by the vendor's ConversationID.
func (s *Service) Reverse(ctx context.Context, req Request) (*entity.Reversal, error) {
	if req.TransactionID == "" || req.ReceiverParty == "" {
		return nil, errs.ErrMissingField
	}

	amountCents, err := entity.ValidateReversalAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	accept, err := s.client.ReverseTransaction(ctx, darajaport.ReversalRequest{
		TransactionID: req.TransactionID,
		Amount:        entity.WholeShillings(amountCents),
		ReceiverParty: req.ReceiverParty,
		Remarks:       req.Remarks,
		Occasion:      req.Occasion,
	})
	if err != nil {
		s.logger.Error("Transaction reversal failed", map[string]any{
			"transaction_id": req.TransactionID,
			"error":          err.Error(),
		})
		return nil, err
	}

	record, err := entity.NewReversal(
		accept.ConversationID,
		accept.OriginatorConversationID,
		req.TransactionID,
		req.Amount,
		req.ReceiverParty,
		req.Remarks,
		req.Occasion,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction reversal initiated", map[string]any{
		"conversation_id": record.ConversationID,
		"transaction_id":  record.TransactionID,
	})
	return record, nil
}
