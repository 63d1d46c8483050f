package disbursement

import (
	"context"
	"fmt"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
)

// HistoryLimit caps the number of records returned by listing endpoints.
const HistoryLimit = 50

// Service implements the B2C and B2B disbursement flows.
type Service struct {
	client       darajaport.Client
	b2cRepo      persistence.B2CRepository
	b2bRepo      persistence.B2BRepository
	shortcode    string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a disbursement service. shortcode is the business
// shortcode used as PartyA on B2B payments.
func NewService(
	client darajaport.Client,
	b2cRepo persistence.B2CRepository,
	b2bRepo persistence.B2BRepository,
	shortcode string,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		client:       client,
		b2cRepo:      b2cRepo,
		b2bRepo:      b2bRepo,
		shortcode:    shortcode,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// B2CRequest carries the form fields for a business-to-customer payment.
type B2CRequest struct {
	PhoneNumber string
	Amount      float64
	CommandID   string
	Remarks     string
	Occasion    string
}

// B2C validates and initiates a business-to-customer disbursement, storing
// a PENDING record keyed by the vendor's ConversationID.
func (s *Service) B2C(ctx context.Context, req B2CRequest) (*entity.B2CTransaction, error) {
	if req.PhoneNumber == "" || req.CommandID == "" || req.Remarks == "" {
		return nil, errs.ErrMissingField
	}
	if !entity.IsValidB2CCommand(req.CommandID) {
		return nil, fmt.Errorf("%w: use SalaryPayment, BusinessPayment, or PromotionPayment",
			errs.ErrInvalidCommandID)
	}

	amountCents, err := entity.ValidateAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	msisdn, err := entity.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	accept, err := s.client.B2CPayment(ctx, darajaport.B2CRequest{
		PhoneNumber: msisdn,
		Amount:      entity.WholeShillings(amountCents),
		CommandID:   req.CommandID,
		Remarks:     req.Remarks,
		Occasion:    req.Occasion,
	})
	if err != nil {
		s.logger.Error("B2C payment initiation failed", map[string]any{
			"phone_number": msisdn,
			"command_id":   req.CommandID,
			"error":        err.Error(),
		})
		return nil, err
	}

	tx, err := entity.NewB2CTransaction(
		accept.ConversationID,
		accept.OriginatorConversationID,
		req.Amount,
		msisdn,
		req.CommandID,
		req.Remarks,
		req.Occasion,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.b2cRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("B2C payment initiated", map[string]any{
		"conversation_id": tx.ConversationID,
		"command_id":      tx.CommandID,
		"amount":          entity.AmountFromCents(tx.AmountCents),
	})
	return tx, nil
}

// B2BRequest carries the form fields for a business-to-business payment.
type B2BRequest struct {
	PartyB           string
	Amount           float64
	CommandID        string
	AccountReference string
	Remarks          string
}

// B2B validates and initiates a business-to-business payment.
func (s *Service) B2B(ctx context.Context, req B2BRequest) (*entity.B2BTransaction, error) {
	if req.PartyB == "" || req.CommandID == "" || req.AccountReference == "" || req.Remarks == "" {
		return nil, errs.ErrMissingField
	}
	if !entity.IsValidB2BCommand(req.CommandID) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidCommandID, req.CommandID)
	}

	amountCents, err := entity.ValidateAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	accept, err := s.client.B2BPayment(ctx, darajaport.B2BRequest{
		PartyB:           req.PartyB,
		Amount:           entity.WholeShillings(amountCents),
		CommandID:        req.CommandID,
		AccountReference: req.AccountReference,
		Remarks:          req.Remarks,
	})
	if err != nil {
		s.logger.Error("B2B payment initiation failed", map[string]any{
			"party_b":    req.PartyB,
			"command_id": req.CommandID,
			"error":      err.Error(),
		})
		return nil, err
	}

	tx, err := entity.NewB2BTransaction(
		accept.ConversationID,
		accept.OriginatorConversationID,
		req.Amount,
		s.shortcode,
		req.PartyB,
		req.CommandID,
		req.AccountReference,
		req.Remarks,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.b2bRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	s.logger.Info("B2B payment initiated", map[string]any{
		"conversation_id": tx.ConversationID,
		"command_id":      tx.CommandID,
	})
	return tx, nil
}

// B2CHistory returns the most recent B2C transactions, newest first.
func (s *Service) B2CHistory(ctx context.Context) ([]*entity.B2CTransaction, error) {
	return s.b2cRepo.ListRecent(ctx, HistoryLimit)
}

// B2BHistory returns the most recent B2B transactions, newest first.
func (s *Service) B2BHistory(ctx context.Context) ([]*entity.B2BTransaction, error) {
	return s.b2bRepo.ListRecent(ctx, HistoryLimit)
}
