package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]any) {}
func (nopLogger) Info(string, map[string]any)  {}
func (nopLogger) Warn(string, map[string]any)  {}
func (nopLogger) Error(string, map[string]any) {}
func (nopLogger) Flush() error                 { return nil }

// fakeAsyncRepo matches a single conversation id and records what was
// applied to it.
type fakeAsyncRepo struct {
	kind           entity.TransactionKind
	conversationID string

	resultErr  error
	timeoutErr error

	appliedResults  []entity.AsyncResult
	appliedTimeouts []string
}

func (f *fakeAsyncRepo) Kind() entity.TransactionKind { return f.kind }

func (f *fakeAsyncRepo) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	if f.resultErr != nil {
		return false, f.resultErr
	}
	if result.ConversationID != f.conversationID {
		return false, nil
	}
	f.appliedResults = append(f.appliedResults, result)
	return true, nil
}

func (f *fakeAsyncRepo) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	if f.timeoutErr != nil {
		return false, f.timeoutErr
	}
	if conversationID != f.conversationID {
		return false, nil
	}
	f.appliedTimeouts = append(f.appliedTimeouts, conversationID)
	return true, nil
}

func TestHandleResult(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the owning kind only", func(t *testing.T) {
		b2c := &fakeAsyncRepo{kind: entity.KindB2C, conversationID: "AG_b2c"}
		b2b := &fakeAsyncRepo{kind: entity.KindB2B, conversationID: "AG_b2b"}
		rec := NewReconciler(nopLogger{}, b2c, b2b)

		err := rec.HandleResult(ctx, entity.AsyncResult{
			ConversationID: "AG_b2b",
			ResultCode:     0,
			ResultDesc:     "The service request is processed successfully.",
		})
		require.NoError(t, err)

		assert.Empty(t, b2c.appliedResults)
		require.Len(t, b2b.appliedResults, 1)
		assert.Equal(t, "AG_b2b", b2b.appliedResults[0].ConversationID)
	})

	t.Run("unknown conversation id is acknowledged", func(t *testing.T) {
		b2c := &fakeAsyncRepo{kind: entity.KindB2C, conversationID: "AG_b2c"}
		rec := NewReconciler(nopLogger{}, b2c)

		err := rec.HandleResult(ctx, entity.AsyncResult{ConversationID: "AG_unknown"})
		assert.NoError(t, err)
		assert.Empty(t, b2c.appliedResults)
	})

	t.Run("store failure wraps kind and correlation id", func(t *testing.T) {
		b2c := &fakeAsyncRepo{
			kind:           entity.KindB2C,
			conversationID: "AG_b2c",
			resultErr:      errs.ErrDatabaseConnection,
		}
		rec := NewReconciler(nopLogger{}, b2c)

		err := rec.HandleResult(ctx, entity.AsyncResult{ConversationID: "AG_b2c"})
		require.Error(t, err)

		var recErr *errs.ReconcileError
		require.True(t, errors.As(err, &recErr))
		assert.Equal(t, "AG_b2c", recErr.CorrelationID)
		assert.Equal(t, string(entity.KindB2C), recErr.Kind)
		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestHandleTimeout(t *testing.T) {
	ctx := context.Background()

	t.Run("offered to every kind", func(t *testing.T) {
		b2c := &fakeAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		reversal := &fakeAsyncRepo{kind: entity.KindReversal, conversationID: "AG_1"}
		rec := NewReconciler(nopLogger{}, b2c, reversal)

		code := 1
		err := rec.HandleTimeout(ctx, "AG_1", &code, "The transaction timed out")
		require.NoError(t, err)

		assert.Len(t, b2c.appliedTimeouts, 1)
		assert.Len(t, reversal.appliedTimeouts, 1)
	})

	t.Run("unknown conversation id is acknowledged", func(t *testing.T) {
		b2c := &fakeAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1"}
		rec := NewReconciler(nopLogger{}, b2c)

		assert.NoError(t, rec.HandleTimeout(ctx, "AG_other", nil, ""))
		assert.Empty(t, b2c.appliedTimeouts)
	})

	t.Run("store failure stops the fan-out", func(t *testing.T) {
		b2c := &fakeAsyncRepo{kind: entity.KindB2C, conversationID: "AG_1", timeoutErr: errs.ErrDatabaseConnection}
		b2b := &fakeAsyncRepo{kind: entity.KindB2B, conversationID: "AG_1"}
		rec := NewReconciler(nopLogger{}, b2c, b2b)

		err := rec.HandleTimeout(ctx, "AG_1", nil, "")
		require.Error(t, err)

		var recErr *errs.ReconcileError
		require.True(t, errors.As(err, &recErr))
		assert.Equal(t, string(entity.KindB2C), recErr.Kind)
		assert.Empty(t, b2b.appliedTimeouts)
	})
}
