package reconcile

import (
	"context"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/domain/port/persistence"
)

// Reconciler routes the vendor's shared result and timeout callbacks to the
// transaction kind that owns the conversation id. The kinds register once
// at startup; at most one will match any given callback.
type Reconciler struct {
	repos  []persistence.AsyncTransactionRepository
	logger coreport.Logger
}

// NewReconciler creates a reconciler over the given kind repositories.
func NewReconciler(logger coreport.Logger, repos ...persistence.AsyncTransactionRepository) *Reconciler {
	return &Reconciler{repos: repos, logger: logger}
}

// HandleResult applies an asynchronous result to the matching record.
// An unknown conversation id is acknowledged but logged; the vendor does
// not act on our response either way.
func (r *Reconciler) HandleResult(ctx context.Context, result entity.AsyncResult) error {
	for _, repo := range r.repos {
		matched, err := repo.ApplyResult(ctx, result)
		if err != nil {
			return &errs.ReconcileError{
				CorrelationID: result.ConversationID,
				Kind:          string(repo.Kind()),
				Err:           err,
			}
		}
		if matched {
			r.logger.Info("Result reconciled", map[string]any{
				"conversation_id": result.ConversationID,
				"kind":            repo.Kind(),
				"status":          result.Status(),
				"result_code":     result.ResultCode,
			})
			return nil
		}
	}

	r.logger.Warn("Result for unknown conversation id", map[string]any{
		"conversation_id": result.ConversationID,
	})
	return nil
}

// HandleTimeout marks every kind's matching record TIMEOUT. Records already
// in a terminal state are left untouched.
func (r *Reconciler) HandleTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) error {
	anyMatched := false
	for _, repo := range r.repos {
		matched, err := repo.ApplyTimeout(ctx, conversationID, resultCode, resultDesc)
		if err != nil {
			return &errs.ReconcileError{
				CorrelationID: conversationID,
				Kind:          string(repo.Kind()),
				Err:           err,
			}
		}
		anyMatched = anyMatched || matched
	}

	if !anyMatched {
		r.logger.Warn("Timeout for unknown conversation id", map[string]any{
			"conversation_id": conversationID,
		})
		return nil
	}

	r.logger.Info("Timeout reconciled", map[string]any{
		"conversation_id": conversationID,
	})
	return nil
}
