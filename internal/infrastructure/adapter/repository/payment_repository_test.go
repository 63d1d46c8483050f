package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/logger"
)

func pendingPayment(t *testing.T, checkoutRequestID string) *entity.Payment {
	t.Helper()
	created := testTime(t, "2024-03-15T09:05:07Z")
	return &entity.Payment{
		ID:                uuid.NewString(),
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: "29115-34620561-1",
		AmountCents:       15000,
		PhoneNumber:       "254712345678",
		AccountReference:  "INV-001",
		TransactionDesc:   "Order payment",
		Status:            entity.StatusPending,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
}

func TestPaymentRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get round trip", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())

		payment := pendingPayment(t, "ws_CO_round_trip")
		require.NoError(t, repo.Create(ctx, payment))

		stored, err := repo.GetByCheckoutRequestID(ctx, "ws_CO_round_trip")
		require.NoError(t, err)
		assert.Equal(t, payment.ID, stored.ID)
		assert.Equal(t, int64(15000), stored.AmountCents)
		assert.Equal(t, "254712345678", stored.PhoneNumber)
		assert.Equal(t, entity.StatusPending, stored.Status)
		assert.Nil(t, stored.ResultCode)
	})

	t.Run("duplicate checkout request id is rejected", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())

		require.NoError(t, repo.Create(ctx, pendingPayment(t, "ws_CO_dup")))
		err := repo.Create(ctx, pendingPayment(t, "ws_CO_dup"))
		assert.ErrorIs(t, err, errs.ErrDuplicateRecord)
	})

	t.Run("get unknown id reports not found", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())

		_, err := repo.GetByCheckoutRequestID(ctx, "ws_CO_missing")
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})

	t.Run("apply result settles a pending payment", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingPayment(t, "ws_CO_settle")))

		settledAt := testTime(t, "2024-03-15T09:06:12Z")
		updated, err := repo.ApplyResult(ctx, "ws_CO_settle", entity.PaymentResult{
			ResultCode:         0,
			ResultDesc:         "The service request is processed successfully.",
			MpesaReceiptNumber: "SCF4HQ2KXX",
			TransactionDate:    &settledAt,
		})
		require.NoError(t, err)
		assert.True(t, updated)

		stored, err := repo.GetByCheckoutRequestID(ctx, "ws_CO_settle")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSuccess, stored.Status)
		require.NotNil(t, stored.ResultCode)
		assert.Equal(t, 0, *stored.ResultCode)
		assert.Equal(t, "SCF4HQ2KXX", stored.MpesaReceiptNumber)
		require.NotNil(t, stored.TransactionDate)
		assert.True(t, settledAt.Equal(*stored.TransactionDate))
	})

	t.Run("redelivered terminal callback is a matched no-op", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingPayment(t, "ws_CO_redelivered")))

		first := entity.PaymentResult{ResultCode: 0, ResultDesc: "Success", MpesaReceiptNumber: "SCF4HQ2KXX"}
		updated, err := repo.ApplyResult(ctx, "ws_CO_redelivered", first)
		require.NoError(t, err)
		require.True(t, updated)

		// The vendor redelivers with a conflicting outcome; the stored
		// terminal state must not change.
		updated, err = repo.ApplyResult(ctx, "ws_CO_redelivered", entity.PaymentResult{
			ResultCode: 1032,
			ResultDesc: "Request cancelled by user",
		})
		require.NoError(t, err)
		assert.False(t, updated)

		stored, err := repo.GetByCheckoutRequestID(ctx, "ws_CO_redelivered")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusSuccess, stored.Status)
		require.NotNil(t, stored.ResultCode)
		assert.Equal(t, 0, *stored.ResultCode)
		assert.Equal(t, "SCF4HQ2KXX", stored.MpesaReceiptNumber)
	})

	t.Run("apply result for unknown id reports not found", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())

		updated, err := repo.ApplyResult(ctx, "ws_CO_unknown", entity.PaymentResult{ResultCode: 0})
		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
		assert.False(t, updated)
	})

	t.Run("failure callback marks the payment failed", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingPayment(t, "ws_CO_failed")))

		updated, err := repo.ApplyResult(ctx, "ws_CO_failed", entity.PaymentResult{
			ResultCode: 1032,
			ResultDesc: "Request cancelled by user",
		})
		require.NoError(t, err)
		assert.True(t, updated)

		stored, err := repo.GetByCheckoutRequestID(ctx, "ws_CO_failed")
		require.NoError(t, err)
		assert.Equal(t, entity.StatusFailed, stored.Status)
	})

	t.Run("list recent returns newest first", func(t *testing.T) {
		repo := NewPaymentRepository(openTestDB(t), logger.NewNoopLogger())

		older := pendingPayment(t, "ws_CO_older")
		older.CreatedAt = testTime(t, "2024-03-15T09:00:00Z")
		newer := pendingPayment(t, "ws_CO_newer")
		newer.CreatedAt = testTime(t, "2024-03-15T10:00:00Z")
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		payments, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, payments, 2)
		assert.Equal(t, "ws_CO_newer", payments[0].CheckoutRequestID)
		assert.Equal(t, "ws_CO_older", payments[1].CheckoutRequestID)
	})
}
