package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// StatusQueryRepository implements the status enquiry persistence port
// using GORM
type StatusQueryRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewStatusQueryRepository creates a new StatusQueryRepository instance
func NewStatusQueryRepository(db *gorm.DB, logger coreport.Logger) *StatusQueryRepository {
	return &StatusQueryRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Kind identifies the transaction kind this repository stores
func (r *StatusQueryRepository) Kind() entity.TransactionKind {
	return entity.KindStatusQuery
}

// Create saves a new PENDING status enquiry
func (r *StatusQueryRepository) Create(ctx context.Context, query *entity.StatusQuery) error {
	queryModel := model.StatusQuery{
		ID:                       query.ID,
		ConversationID:           query.ConversationID,
		OriginatorConversationID: query.OriginatorConversationID,
		TransactionID:            query.TransactionID,
		PartyA:                   query.PartyA,
		IdentifierType:           query.IdentifierType,
		Remarks:                  query.Remarks,
		Occasion:                 query.Occasion,
		Status:                   string(query.Status),
		ResultCode:               query.ResultCode,
		ResultDesc:               query.ResultDesc,
		ReceiptNumber:            query.ReceiptNumber,
		TransactionData:          query.TransactionData,
		CreatedAt:                query.CreatedAt,
		UpdatedAt:                query.UpdatedAt,
	}

	result := r.db.WithContext(ctx).Create(&queryModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create status query", map[string]any{
			"conversation_id": query.ConversationID,
			"error":           result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("Status query created", map[string]any{
		"conversation_id": query.ConversationID,
		"transaction_id":  query.TransactionID,
	})
	return nil
}

// ApplyResult applies a terminal result to the matching status enquiry.
// The full parameter list is stored as JSON so callers can inspect
// whatever the vendor reported about the queried transaction.
func (r *StatusQueryRepository) ApplyResult(ctx context.Context, result entity.AsyncResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}
	if receipt, ok := result.Parameter(entity.ParamReceiptNo); ok {
		updates["receipt_number"] = receipt
	}
	if data := result.ParametersJSON(); data != "" {
		updates["transaction_data"] = data
	}

	matched, err := applyConversationUpdate(ctx, r.db, &model.StatusQuery{}, result.ConversationID, updates)
	if err != nil {
		r.logger.Error("Failed to apply status query result", map[string]any{
			"conversation_id": result.ConversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	if matched {
		r.logger.Info("Status query result applied", map[string]any{
			"conversation_id": result.ConversationID,
			"result_code":     result.ResultCode,
		})
	}
	return matched, nil
}

// ApplyTimeout marks the matching status enquiry TIMEOUT
func (r *StatusQueryRepository) ApplyTimeout(ctx context.Context, conversationID string, resultCode *int, resultDesc string) (bool, error) {
	matched, err := applyConversationUpdate(ctx, r.db, &model.StatusQuery{}, conversationID, timeoutUpdates(resultCode, resultDesc))
	if err != nil {
		r.logger.Error("Failed to apply status query timeout", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return false, err
	}
	return matched, nil
}
