package entity

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

// fixedTimeProvider pins Now to a known instant for deterministic records.
type fixedTimeProvider struct {
	now time.Time
}

func (f *fixedTimeProvider) Now() time.Time                  { return f.now }
func (f *fixedTimeProvider) Since(t time.Time) time.Duration { return f.now.Sub(t) }
func (f *fixedTimeProvider) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func testClock() *fixedTimeProvider {
	return &fixedTimeProvider{now: time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)}
}

func TestNewPayment(t *testing.T) {
	clock := testClock()

	t.Run("builds pending payment", func(t *testing.T) {
		p, err := NewPayment("ws_CO_1", "mr_1", 150, "0712345678", "INV-001", "Order payment", clock)
		require.NoError(t, err)

		assert.NotEmpty(t, p.ID)
		assert.Equal(t, "ws_CO_1", p.CheckoutRequestID)
		assert.Equal(t, "mr_1", p.MerchantRequestID)
		assert.Equal(t, int64(15000), p.AmountCents)
		assert.Equal(t, "254712345678", p.PhoneNumber)
		assert.Equal(t, StatusPending, p.Status)
		assert.Nil(t, p.ResultCode)
		assert.Equal(t, clock.now, p.CreatedAt)
		assert.Equal(t, clock.now, p.UpdatedAt)
		assert.Equal(t, 150.0, p.Amount())
	})

	t.Run("requires checkout request id", func(t *testing.T) {
		_, err := NewPayment("", "mr_1", 150, "0712345678", "INV-001", "", clock)
		assert.ErrorIs(t, err, errs.ErrMissingField)
	})

	t.Run("rejects invalid amount", func(t *testing.T) {
		_, err := NewPayment("ws_CO_1", "mr_1", 0, "0712345678", "INV-001", "", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("rejects invalid phone number", func(t *testing.T) {
		_, err := NewPayment("ws_CO_1", "mr_1", 150, "12345", "INV-001", "", clock)
		assert.ErrorIs(t, err, errs.ErrInvalidPhoneNumber)
	})
}

func TestPaymentResultStatus(t *testing.T) {
	assert.Equal(t, StatusSuccess, PaymentResult{ResultCode: 0}.Status())
	assert.Equal(t, StatusFailed, PaymentResult{ResultCode: 1032}.Status())
}
