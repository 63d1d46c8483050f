package payment

import (
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
)

// HistoryLimit caps the number of records returned by listing endpoints.
const HistoryLimit = 50

// Service implements the STK Push payment flow: initiation, status checks
// with a live vendor re-query, and callback reconciliation.
type Service struct {
	client       darajaport.Client
	payments     persistence.PaymentRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates a payment service with explicit dependencies.
func NewService(
	client darajaport.Client,
	payments persistence.PaymentRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		client:       client,
		payments:     payments,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

func validateInitiateRequest(req InitiateRequest) error {
	if req.PhoneNumber == "" || req.AccountReference == "" {
		return errs.ErrMissingField
	}
	return nil
}
