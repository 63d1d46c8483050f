package payment

import (
	"context"
	"errors"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	darajaport "github.com/kmwangi/mpesa-gateway/internal/domain/port/daraja"
)

// InitiateRequest carries the form fields for an STK Push initiation.
type InitiateRequest struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	TransactionDesc  string
}

// Initiate validates the request, pushes the payment prompt to the
// customer's device, and stores a PENDING record keyed by the vendor's
// CheckoutRequestID. Validation failures never reach the vendor.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*entity.Payment, error) {
	if err := validateInitiateRequest(req); err != nil {
		return nil, err
	}

	amountCents, err := entity.ValidateAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	msisdn, err := entity.NormalizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	transactionDesc := req.TransactionDesc
	if transactionDesc == "" {
		transactionDesc = "Payment"
	}

	accept, err := s.client.STKPush(ctx, darajaport.STKPushRequest{
		PhoneNumber:      msisdn,
		Amount:           entity.WholeShillings(amountCents),
		AccountReference: req.AccountReference,
		TransactionDesc:  transactionDesc,
	})
	if err != nil {
		s.logger.Error("STK push initiation failed", map[string]any{
			"phone_number": msisdn,
			"error":        err.Error(),
		})
		return nil, err
	}

	pmt, err := entity.NewPayment(
		accept.CheckoutRequestID,
		accept.MerchantRequestID,
		req.Amount,
		msisdn,
		req.AccountReference,
		transactionDesc,
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := s.payments.Create(ctx, pmt); err != nil {
		// The vendor callback can race record creation; if the correlation
		// id is already stored, return the stored record instead.
		if errors.Is(err, errs.ErrDuplicateRecord) {
			return s.payments.GetByCheckoutRequestID(ctx, accept.CheckoutRequestID)
		}
		return nil, err
	}

	s.logger.Info("Payment initiated", map[string]any{
		"checkout_request_id": pmt.CheckoutRequestID,
		"amount":              pmt.Amount(),
		"phone_number":        pmt.PhoneNumber,
	})
	return pmt, nil
}

// History returns the most recent payments, newest first.
func (s *Service) History(ctx context.Context) ([]*entity.Payment, error) {
	return s.payments.ListRecent(ctx, HistoryLimit)
}
