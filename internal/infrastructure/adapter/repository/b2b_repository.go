package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// B2BRepository implements the B2B persistence port using GORM
type B2BRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewB2BRepository creates a new B2BRepository instance
func NewB2BRepository(db *gorm.DB, logger coreport.Logger) *B2BRepository {
	return &B2BRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Kind identifies the transaction kind this repository stores
func (r *B2BRepository) Kind() entity.TransactionKind {
	return entity.KindB2B
}

func (r *B2BRepository) entityToModel(tx *entity.B2BTransaction) model.B2BTransaction {
	return model.B2BTransaction{
		ID:                       tx.ID,
		ConversationID:           tx.ConversationID,
		OriginatorConversationID: tx.OriginatorConversationID,
		AmountCents:              tx.AmountCents,
		PartyA:                   tx.PartyA,
		PartyB:                   tx.PartyB,
		CommandID:                tx.CommandID,
		AccountReference:         tx.AccountReference,
		Remarks:                  tx.Remarks,
		Status:                   string(tx.Status),
		ResultCode:               tx.ResultCode,
		ResultDesc:               tx.ResultDesc,
		MpesaTransactionID:       tx.MpesaTransactionID,
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
	}
}

func (r *B2BRepository) modelToEntity(mdl *model.B2BTransaction) *entity.B2BTransaction {
	return &entity.B2BTransaction{
		ID:                       mdl.ID,
		ConversationID:           mdl.ConversationID,
		OriginatorConversationID: mdl.OriginatorConversationID,
		AmountCents:              mdl.AmountCents,
		PartyA:                   mdl.PartyA,
		PartyB:                   mdl.PartyB,
		CommandID:                mdl.CommandID,
		AccountReference:         mdl.AccountReference,
		Remarks:                  mdl.Remarks,
		Status:                   entity.TransactionStatus(mdl.Status),
		ResultCode:               mdl.ResultCode,
		ResultDesc:               mdl.ResultDesc,
		MpesaTransactionID:       mdl.MpesaTransactionID,
		CreatedAt:                mdl.CreatedAt,
		UpdatedAt:                mdl.UpdatedAt,
	}
}

// Create saves a new PENDING B2B transaction
func (r *B2BRepository) Create(ctx context.Context, tx *entity.B2BTransaction) error {
	txModel := r.entityToModel(tx)
	result := r.db.WithContext(ctx).Create(&txModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate B2B transaction detected", map[string]any{
				"conversation_id": tx.ConversationID,
			})
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create B2B transaction", map[string]any{
			"conversation_id": tx.ConversationID,
			"error":           result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("B2B transaction created", map[string]any{
		"conversation_id": tx.ConversationID,
		"command_id":      tx.CommandID,
	})
	return nil
}

// ApplyResult applies a terminal result to the matching B2B transaction
func (r *B2BRepository) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}
	if receipt, ok := result.Parameter(entity.ParamTransactionID); ok {
		updates["mpesa_transaction_id"] = receipt
	}

	matched, err := applyConversationUpdate(ctx, r.db, &model.B2BTransaction{}, result.ConversationID, updates)
	if err != nil {
		r.logger.Error("Failed to apply B2B result", map[string]any{
			"conversation_id": result.ConversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	if matched {
		r.logger.Info("B2B result applied", map[string]any{
			"conversation_id": result.ConversationID,
			"result_code":     result.ResultCode,
		})
	}
	return matched, nil
}

// ApplyTimeout marks the matching B2B transaction TIMEOUT
func (r *B2BRepository) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	matched, err := applyConversationUpdate(ctx, r.db, &model.B2BTransaction{}, conversationID, timeoutUpdates(resultCode, resultDesc))
	if err != nil {
		r.logger.Error("Failed to apply B2B timeout", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	return matched, nil
}

// ListRecent returns the most recently created B2B transactions, newest first
func (r *B2BRepository) ListRecent(ctx context.Context, limit int) ([]*entity.B2BTransaction, error) {
	var models []model.B2BTransaction
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, wrapStoreError(result.Error)
	}

	transactions := make([]*entity.B2BTransaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, r.modelToEntity(&models[i]))
	}
	return transactions, nil
}
