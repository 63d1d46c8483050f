package payment

import (
	"context"
	"strconv"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// CallbackItem is one entry of the CallbackMetadata list Daraja posts on a
// successful STK payment.
type CallbackItem struct {
	Name  string
	Value any
}

// Callback is the normalized stkCallback payload.
type Callback struct {
	CheckoutRequestID string
	ResultCode        int
	ResultDesc        string
	Metadata          []CallbackItem
}

// metadata names extracted on success
const (
	metaReceiptNumber   = "MpesaReceiptNumber"
	metaTransactionDate = "TransactionDate"
)

// HandleCallback applies an STK callback to the matching PENDING payment.
// A missing record returns ErrTransactionNotFound; no record is ever
// created here. Redelivered terminal callbacks are no-ops.
func (s *Service) HandleCallback(ctx context.Context, cb Callback) error {
	result := entity.PaymentResult{
		ResultCode: cb.ResultCode,
		ResultDesc: cb.ResultDesc,
	}

	if cb.ResultCode == 0 {
		for _, item := range cb.Metadata {
			switch item.Name {
			case metaReceiptNumber:
				result.MpesaReceiptNumber = stringValue(item.Value)
			case metaTransactionDate:
				// Packed YYYYMMDDHHmmss, delivered as a JSON number.
				if ts, err := entity.ParseCompactTime(stringValue(item.Value)); err == nil {
					result.TransactionDate = &ts
				} else {
					s.logger.Warn("Unparseable transaction date in callback", map[string]any{
						"checkout_request_id": cb.CheckoutRequestID,
						"value":               item.Value,
					})
				}
			}
		}
	}

	updated, err := s.payments.ApplyResult(ctx, cb.CheckoutRequestID, result)
	if err != nil {
		return err
	}

	if !updated {
		s.logger.Info("Duplicate terminal callback ignored", map[string]any{
			"checkout_request_id": cb.CheckoutRequestID,
		})
		return nil
	}

	s.logger.Info("Payment reconciled from callback", map[string]any{
		"checkout_request_id": cb.CheckoutRequestID,
		"status":              result.Status(),
		"result_code":         cb.ResultCode,
	})
	return nil
}

func stringValue(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
	}
	return ""
}
