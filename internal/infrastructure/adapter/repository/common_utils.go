package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

// ErrorClassifier provides methods to classify database errors
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// IsDuplicateKeyError checks if the error is a duplicate key error
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint") ||
		strings.Contains(err.Error(), "Duplicate entry")
}

// IsTransientError checks if an error is transient and can be retried
func (c *ErrorClassifier) IsTransientError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "connection reset") ||
		strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "timeout") ||
		strings.Contains(err.Error(), "EOF") ||
		strings.Contains(err.Error(), "server closed") ||
		strings.Contains(err.Error(), "broken pipe")
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "connection") ||
		strings.Contains(err.Error(), "dial") ||
		strings.Contains(err.Error(), "network") ||
		c.IsTransientError(err)
}

// storeErrors classifies driver errors for the package's shared helpers.
var storeErrors = NewErrorClassifier()

// wrapStoreError maps a driver error onto the domain taxonomy: connectivity
// trouble wraps ErrDatabaseConnection so callers can tell infrastructure
// failures from data problems, anything else wraps ErrInternalServer.
func wrapStoreError(err error) error {
	if storeErrors.IsConnectionError(err) {
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return fmt.Errorf("%w: %s", errs.ErrInternalServer, err.Error())
}

// applyConversationUpdate writes terminal fields to the record matching the
// conversation id, conditional on the record still being PENDING. When no
// PENDING row was touched it distinguishes a redelivered terminal callback
// (record exists, matched but untouched) from an unknown conversation id.
func applyConversationUpdate(
	ctx context.Context,
	db *gorm.DB,
	mdl any,
	conversationID string,
	updates map[string]any,
) (matched bool, err error) {
	result := db.WithContext(ctx).Model(mdl).
		Where("conversation_id = ? AND status = ?", conversationID, string(entity.StatusPending)).
		Updates(updates)
	if result.Error != nil {
		return false, wrapStoreError(result.Error)
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	var count int64
	countResult := db.WithContext(ctx).Model(mdl).
		Where("conversation_id = ?", conversationID).
		Count(&count)
	if countResult.Error != nil {
		return false, wrapStoreError(countResult.Error)
	}
	return count > 0, nil
}

// timeoutUpdates builds the column set for a timeout callback. The vendor
// does not always include a result code on timeouts.
func timeoutUpdates(resultCode *int, resultDesc string) map[string]any {
	updates := map[string]any{
		"status": string(entity.StatusTimeout),
	}
	if resultCode != nil {
		updates["result_code"] = *resultCode
	}
	if resultDesc != "" {
		updates["result_desc"] = resultDesc
	}
	return updates
}
