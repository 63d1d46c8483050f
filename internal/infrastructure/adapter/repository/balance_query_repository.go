package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// BalanceQueryRepository implements the balance enquiry persistence port
// using GORM
type BalanceQueryRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewBalanceQueryRepository creates a new BalanceQueryRepository instance
func NewBalanceQueryRepository(db *gorm.DB, logger coreport.Logger) *BalanceQueryRepository {
	return &BalanceQueryRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Kind identifies the transaction kind this repository stores
func (r *BalanceQueryRepository) Kind() entity.TransactionKind {
	return entity.KindBalanceQuery
}

// Create saves a new PENDING balance enquiry
func (r *BalanceQueryRepository) Create(ctx context.Context, query *entity.BalanceQuery) error {
	queryModel := model.BalanceQuery{
		ID:                       query.ID,
		ConversationID:           query.ConversationID,
		OriginatorConversationID: query.OriginatorConversationID,
		PartyA:                   query.PartyA,
		IdentifierType:           query.IdentifierType,
		Remarks:                  query.Remarks,
		Status:                   string(query.Status),
		ResultCode:               query.ResultCode,
		ResultDesc:               query.ResultDesc,
		AccountBalance:           query.AccountBalance,
		CreatedAt:                query.CreatedAt,
		UpdatedAt:                query.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&queryModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create balance query", map[string]any{
			"conversation_id": query.ConversationID,
			"error":           result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("Balance query created", map[string]any{
		"conversation_id": query.ConversationID,
	})
	return nil
}

// ApplyResult applies a terminal result to the matching balance enquiry.
// On success the AccountBalance result parameter is stored verbatim.
func (r *BalanceQueryRepository) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}
	if balance, ok := result.Parameter(entity.ParamAccountBalance); ok {
		updates["account_balance"] = balance
	}

	matched, err := applyConversationUpdate(ctx, r.db, &model.BalanceQuery{}, result.ConversationID, updates)
	if err != nil {
		r.logger.Error("Failed to apply balance query result", map[string]any{
			"conversation_id": result.ConversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	if matched {
		r.logger.Info("Balance query result applied", map[string]any{
			"conversation_id": result.ConversationID,
			"result_code":     result.ResultCode,
		})
	}
	return matched, nil
}

// ApplyTimeout marks the matching balance enquiry TIMEOUT
func (r *BalanceQueryRepository) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	matched, err := applyConversationUpdate(ctx, r.db, &model.BalanceQuery{}, conversationID, timeoutUpdates(resultCode, resultDesc))
	if err != nil {
		r.logger.Error("Failed to apply balance query timeout", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	return matched, nil
}
