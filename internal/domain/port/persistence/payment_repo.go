package persistence

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// PaymentRepository persists STK Push payments keyed by CheckoutRequestID.
type PaymentRepository interface {
	// Create stores a new PENDING payment. A duplicate correlation id
	// returns ErrDuplicateRecord.
	Create(ctx context.Context, payment *entity.Payment) error

	// GetByCheckoutRequestID returns the payment for a correlation id, or
	// ErrTransactionNotFound.
	GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error)

	// ApplyResult writes a terminal result. The update is conditional on the
	// record still being PENDING: a redelivered terminal callback is a no-op
	// and reports updated=false with no error. A missing record returns
	// ErrTransactionNotFound.
	ApplyResult(ctx context.Context, checkoutRequestID string, result entity.PaymentResult) (updated bool, err error)

	// ListRecent returns the most recently created payments, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.Payment, error)
}
