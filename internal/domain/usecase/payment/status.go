package payment

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

// StatusResult is the answer to a status check. RateLimited signals that
// the vendor throttled the live re-query; the caller should widen its
// polling interval rather than treat the check as failed.
type StatusResult struct {
	Payment     *entity.Payment
	RateLimited bool
}

// Status returns the current record for a checkout request. While the
// record is still PENDING it attempts a live vendor query and applies any
// settled outcome before answering.
func (s *Service) Status(ctx context.Context, checkoutRequestID string) (*StatusResult, error) {
	pmt, err := s.payments.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}

	if pmt.Status.IsTerminal() {
		return &StatusResult{Payment: pmt}, nil
	}

	query, err := s.client.STKQuery(ctx, checkoutRequestID)
	if err != nil {
		if errs.IsRateLimitedError(err) {
			s.logger.Warn("STK status query rate limited", map[string]any{
				"checkout_request_id": checkoutRequestID,
			})
			return &StatusResult{Payment: pmt, RateLimited: true}, nil
		}
		// The stored record is still the source of truth; a failed
		// re-query is reported, not swallowed.
		s.logger.Error("STK status query failed", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               err.Error(),
		})
		return nil, err
	}

	if query.ResultCode == nil {
		// Vendor has no outcome yet; the record stays PENDING.
		return &StatusResult{Payment: pmt}, nil
	}

	result := entity.PaymentResult{
		ResultCode: *query.ResultCode,
		ResultDesc: query.ResultDesc,
	}
	if _, err := s.payments.ApplyResult(ctx, checkoutRequestID, result); err != nil {
		return nil, err
	}

	updated, err := s.payments.GetByCheckoutRequestID(ctx, checkoutRequestID)
	if err != nil {
		return nil, err
	}
	return &StatusResult{Payment: updated}, nil
}
