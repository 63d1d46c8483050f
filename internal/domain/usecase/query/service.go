package query

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
)

// Service implements the account balance and transaction status enquiry
// flows. Both are fire-and-forget: the answer arrives on the result
// callback and is reconciled there.
type Service struct {
	client       darajaport.Client
	balanceRepo  persistence.BalanceQueryRepository
	statusRepo   persistence.StatusQueryRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a query service with explicit dependencies.
func NewService(
	client darajaport.Client,
	balanceRepo persistence.BalanceQueryRepository,
	statusRepo persistence.StatusQueryRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		client:       client,
		balanceRepo:  balanceRepo,
		statusRepo:   statusRepo,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// BalanceRequest carries the form fields for an account balance enquiry.
type BalanceRequest struct {
	PartyA         string
	IdentifierType string
	Remarks        string
}

// Balance validates and initiates an account balance enquiry.
func (s *Service) Balance(ctx context.Context, req BalanceRequest) (*entity.BalanceQuery, error) {
	if req.PartyA == "" || req.IdentifierType == "" || req.Remarks == "" {
		return nil, errs.ErrMissingField
	}

	accept, err := s.client.AccountBalance(ctx, darajaport.BalanceRequest{
		PartyA:         req.PartyA,
		IdentifierType: req.IdentifierType,
		Remarks:        req.Remarks,
	})
	if err != nil {
		s.logger.Error("Account balance query failed", map[string]any{
			"party_a": req.PartyA,
			"error":   err.Error(),
		})
		return nil, err
	}

	record, err := entity.NewBalanceQuery(
		accept.ConversationID,
		accept.OriginatorConversationID,
		req.PartyA,
		req.IdentifierType,
		req.Remarks,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.balanceRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Balance query initiated", map[string]any{
		"conversation_id": record.ConversationID,
		"party_a":         record.PartyA,
	})
	return record, nil
}

// StatusRequest carries the form fields for a transaction status enquiry.
type StatusRequest struct {
	TransactionID  string
	PartyA         string
	IdentifierType string
	Remarks        string
	Occasion       string
}

// TransactionStatus validates and initiates a transaction status enquiry.
func (s *Service) TransactionStatus(ctx context.Context, req StatusRequest) (*entity.StatusQuery, error) {
	if req.TransactionID == "" || req.PartyA == "" || req.IdentifierType == "" || req.Remarks == "" {
		return nil, errs.ErrMissingField
	}

	accept, err := s.client.TransactionStatus(ctx, darajaport.StatusRequest{
		TransactionID:  req.TransactionID,
		PartyA:         req.PartyA,
		IdentifierType: req.IdentifierType,
		Remarks:        req.Remarks,
		Occasion:       req.Occasion,
	})
	if err != nil {
		s.logger.Error("Transaction status query failed", map[string]any{
			"transaction_id": req.TransactionID,
			"error":          err.Error(),
		})
		return nil, err
	}

	record, err := entity.NewStatusQuery(
		accept.ConversationID,
		accept.OriginatorConversationID,
		req.TransactionID,
		req.PartyA,
		req.IdentifierType,
		req.Remarks,
		req.Occasion,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.statusRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Transaction status query initiated", map[string]any{
		"conversation_id": record.ConversationID,
		"transaction_id":  record.TransactionID,
	})
	return record, nil
}
