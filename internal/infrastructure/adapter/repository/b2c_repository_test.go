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

func pendingB2C(t *testing.T, conversationID string) *entity.B2CTransaction {
	t.Helper()
	created := testTime(t, "2024-03-15T09:05:07Z")
	return &entity.B2CTransaction{
		ID:                       uuid.NewString(),
		ConversationID:           conversationID,
		OriginatorConversationID: "29112-34567890-1",
		AmountCents:              250000,
		PhoneNumber:              "254712345678",
		CommandID:                "BusinessPayment",
		Remarks:                  "Salary",
		Status:                   entity.StatusPending,
		CreatedAt:                created,
		UpdatedAt:                created,
	}
}

func TestB2CRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create rejects duplicate conversation id", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())

		require.NoError(t, repo.Create(ctx, pendingB2C(t, "AG_dup")))
		err := repo.Create(ctx, pendingB2C(t, "AG_dup"))
		assert.ErrorIs(t, err, errs.ErrDuplicateRecord)
	})

	t.Run("apply result settles a pending disbursement", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingB2C(t, "AG_settle")))

		matched, err := repo.ApplyResult(ctx, entity.AsyncResult{
			ConversationID: "AG_settle",
			ResultCode:     0,
			ResultDesc:     "The service request is processed successfully.",
			Parameters: []entity.ResultParameter{
				{Key: entity.ParamTransactionID, Value: "SCF4HQ2KXX"},
			},
		})
		require.NoError(t, err)
		assert.True(t, matched)

		transactions, err := repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, entity.StatusSuccess, transactions[0].Status)
		assert.Equal(t, "SCF4HQ2KXX", transactions[0].MpesaTransactionID)
	})

	t.Run("redelivered result leaves the terminal row untouched", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingB2C(t, "AG_redelivered")))

		matched, err := repo.ApplyResult(ctx, entity.AsyncResult{
			ConversationID: "AG_redelivered",
			ResultCode:     0,
			ResultDesc:     "Success",
		})
		require.NoError(t, err)
		require.True(t, matched)

		matched, err = repo.ApplyResult(ctx, entity.AsyncResult{
			ConversationID: "AG_redelivered",
			ResultCode:     2001,
			ResultDesc:     "The initiator information is invalid.",
		})
		require.NoError(t, err)
		assert.True(t, matched)

		transactions, err := repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, entity.StatusSuccess, transactions[0].Status)
		require.NotNil(t, transactions[0].ResultCode)
		assert.Equal(t, 0, *transactions[0].ResultCode)
	})

	t.Run("apply result for unknown conversation id is unmatched", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())

		matched, err := repo.ApplyResult(ctx, entity.AsyncResult{
			ConversationID: "AG_unknown",
			ResultCode:     0,
		})
		require.NoError(t, err)
		assert.False(t, matched)
	})

	t.Run("timeout marks a pending disbursement timed out", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingB2C(t, "AG_timeout")))

		matched, err := repo.ApplyTimeout(ctx, "AG_timeout", intPtr(1), "The request timed out")
		require.NoError(t, err)
		assert.True(t, matched)

		transactions, err := repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, entity.StatusTimeout, transactions[0].Status)
	})

	t.Run("timeout after settlement does not reopen the row", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())
		require.NoError(t, repo.Create(ctx, pendingB2C(t, "AG_settled_timeout")))

		matched, err := repo.ApplyResult(ctx, entity.AsyncResult{
			ConversationID: "AG_settled_timeout",
			ResultCode:     0,
			ResultDesc:     "Success",
		})
		require.NoError(t, err)
		require.True(t, matched)

		matched, err = repo.ApplyTimeout(ctx, "AG_settled_timeout", nil, "The request timed out")
		require.NoError(t, err)
		assert.True(t, matched)

		transactions, err := repo.ListRecent(ctx, 1)
		require.NoError(t, err)
		require.Len(t, transactions, 1)
		assert.Equal(t, entity.StatusSuccess, transactions[0].Status)
	})

	t.Run("list recent returns newest first", func(t *testing.T) {
		repo := NewB2CRepository(openTestDB(t), logger.NewNoopLogger())

		older := pendingB2C(t, "AG_older")
		older.CreatedAt = testTime(t, "2024-03-15T09:00:00Z")
		newer := pendingB2C(t, "AG_newer")
		newer.CreatedAt = testTime(t, "2024-03-15T10:00:00Z")
		require.NoError(t, repo.Create(ctx, older))
		require.NoError(t, repo.Create(ctx, newer))

		transactions, err := repo.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, transactions, 2)
		assert.Equal(t, "AG_newer", transactions[0].ConversationID)
		assert.Equal(t, "AG_older", transactions[1].ConversationID)
	})
}
