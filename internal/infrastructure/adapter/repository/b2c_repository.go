package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// B2CRepository implements the B2C persistence port using GORM
type B2CRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewB2CRepository creates a new B2CRepository instance
func NewB2CRepository(db *gorm.DB, logger coreport.Logger) *B2CRepository {
	return &B2CRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Kind identifies the transaction kind this repository stores
func (r *B2CRepository) Kind() entity.TransactionKind {
	return entity.KindB2C
}

func (r *B2CRepository) entityToModel(tx *entity.B2CTransaction) model.B2CTransaction {
	return model.B2CTransaction{
		ID:                       tx.ID,
		ConversationID:           tx.ConversationID,
		OriginatorConversationID: tx.OriginatorConversationID,
		AmountCents:              tx.AmountCents,
		PhoneNumber:              tx.PhoneNumber,
		CommandID:                tx.CommandID,
		Remarks:                  tx.Remarks,
		Occasion:                 tx.Occasion,
		Status:                   string(tx.Status),
		ResultCode:               tx.ResultCode,
		ResultDesc:               tx.ResultDesc,
		MpesaTransactionID:       tx.MpesaTransactionID,
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
	}
}

func (r *B2CRepository) modelToEntity(mdl *model.B2CTransaction) *entity.B2CTransaction {
	return &entity.B2CTransaction{
		ID:                       mdl.ID,
		ConversationID:           mdl.ConversationID,
		OriginatorConversationID: mdl.OriginatorConversationID,
		AmountCents:              mdl.AmountCents,
		PhoneNumber:              mdl.PhoneNumber,
		CommandID:                mdl.CommandID,
		Remarks:                  mdl.Remarks,
		Occasion:                 mdl.Occasion,
		Status:                   entity.TransactionStatus(mdl.Status),
		ResultCode:               mdl.ResultCode,
		ResultDesc:               mdl.ResultDesc,
		MpesaTransactionID:       mdl.MpesaTransactionID,
		CreatedAt:                mdl.CreatedAt,
		UpdatedAt:                mdl.UpdatedAt,
	}
}

// Create saves a new PENDING B2C transaction
func (r *B2CRepository) Create(ctx context.Context, tx *entity.B2CTransaction) error {
	txModel := r.entityToModel(tx)
	result := r.db.WithContext(ctx).Create(&txModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate B2C transaction detected", map[string]any{
				"conversation_id": tx.ConversationID,
			})
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create B2C transaction", map[string]any{
			"conversation_id": tx.ConversationID,
			"error":           result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("B2C transaction created", map[string]any{
		"conversation_id": tx.ConversationID,
		"command_id":      tx.CommandID,
	})
	return nil
}

// ApplyResult applies a terminal result to the matching B2C transaction
func (r *B2CRepository) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}
	if receipt, ok := result.Parameter(entity.ParamTransactionID); ok {
		updates["mpesa_transaction_id"] = receipt
	}

	matched, err := applyConversationUpdate(ctx, r.db, &model.B2CTransaction{}, result.ConversationID, updates)
	if err != nil {
		r.logger.Error("Failed to apply B2C result", map[string]any{
			"conversation_id": result.ConversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	if matched {
		r.logger.Info("B2C result applied", map[string]any{
			"conversation_id": result.ConversationID,
			"result_code":     result.ResultCode,
		})
	}
	return matched, nil
}

// ApplyTimeout marks the matching B2C transaction TIMEOUT
func (r *B2CRepository) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	matched, err := applyConversationUpdate(ctx, r.db, &model.B2CTransaction{}, conversationID, timeoutUpdates(resultCode, resultDesc))
	if err != nil {
		r.logger.Error("Failed to apply B2C timeout", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	return matched, nil
}

// ListRecent returns the most recently created B2C transactions, newest first
func (r *B2CRepository) ListRecent(ctx context.Context, limit int) ([]*entity.B2CTransaction, error) {
	var models []model.B2CTransaction
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, wrapStoreError(result.Error)
	}

	transactions := make([]*entity.B2CTransaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}
