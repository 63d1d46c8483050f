package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// ReversalRepository implements the reversal persistence port using GORM
type ReversalRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewReversalRepository creates a new ReversalRepository instance
func NewReversalRepository(db *gorm.DB, logger coreport.Logger) *ReversalRepository {
	return &ReversalRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Kind identifies the transaction kind this repository stores
func (r *ReversalRepository) Kind() entity.TransactionKind {
	return entity.KindReversal
}

func (r *ReversalRepository) modelToEntity(mdl *model.Reversal) *entity.Reversal {
	return &entity.Reversal{
		ID:                       mdl.ID,
		ConversationID:           mdl.ConversationID,
		OriginatorConversationID: mdl.OriginatorConversationID,
		TransactionID:            mdl.TransactionID,
		AmountCents:              mdl.AmountCents,
		ReceiverParty:            mdl.ReceiverParty,
		Remarks:                  mdl.Remarks,
		Occasion:                 mdl.Occasion,
		Status:                   entity.TransactionStatus(mdl.Status),
		ResultCode:               mdl.ResultCode,
		ResultDesc:               mdl.ResultDesc,
		CreatedAt:                mdl.CreatedAt,
		UpdatedAt:                mdl.UpdatedAt,
	}
}

// Create saves a new PENDING reversal
func (r *ReversalRepository) Create(ctx context.Context, reversal *entity.Reversal) error {
	reversalModel := model.Reversal{
		ID:                       reversal.ID,
		ConversationID:           reversal.ConversationID,
		OriginatorConversationID: reversal.OriginatorConversationID,
		TransactionID:            reversal.TransactionID,
		AmountCents:              reversal.AmountCents,
		ReceiverParty:            reversal.ReceiverParty,
		Remarks:                  reversal.Remarks,
		Occasion:                 reversal.Occasion,
		Status:                   string(reversal.Status),
		ResultCode:               reversal.ResultCode,
		ResultDesc:               reversal.ResultDesc,
		CreatedAt:                reversal.CreatedAt,
		UpdatedAt:                reversal.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&reversalModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create reversal", map[string]any{
			"conversation_id": reversal.ConversationID,
			"error":           result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("Reversal created", map[string]any{
		"conversation_id": reversal.ConversationID,
		"transaction_id":  reversal.TransactionID,
	})
	return nil
}

// GetByTransactionID retrieves the most recent reversal of an M-Pesa
// receipt number
func (r *ReversalRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Reversal, error) {
	var reversalModel model.Reversal
	result := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at DESC").
		First(&reversalModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get reversal", map[string]any{
			"transaction_id": transactionID,
			"error":          result.Error.Error(),
		})
		return nil, wrapStoreError(result.Error)
	}

	return r.modelToEntity(&reversalModel), nil
}

// ApplyResult applies a terminal result to the matching reversal
func (r *ReversalRepository) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}

	matched, err := applyConversationUpdate(ctx, r.db, &model.Reversal{}, result.ConversationID, updates)
	if err != nil {
		r.logger.Error("Failed to apply reversal result", map[string]any{
			"conversation_id": result.ConversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	if matched {
		r.logger.Info("Reversal result applied", map[string]any{
			"conversation_id": result.ConversationID,
			"result_code":     result.ResultCode,
		})
	}
	return matched, nil
}

// ApplyTimeout marks the matching reversal TIMEOUT
func (r *ReversalRepository) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	matched, err := applyConversationUpdate(ctx, r.db, &model.Reversal{}, conversationID, timeoutUpdates(resultCode, resultDesc))
	if err != nil {
		r.logger.Error("Failed to apply reversal timeout", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	return matched, nil
}
