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

// PaymentRepository implements the payment persistence port using GORM
type PaymentRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewPaymentRepository creates a new PaymentRepository instance
func NewPaymentRepository(db *gorm.DB, logger coreport.Logger) *PaymentRepository {
	return &PaymentRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a payment entity to a database model
func (r *PaymentRepository) entityToModel(payment *entity.Payment) model.Payment {
	return model.Payment{
		ID:                 payment.ID,
		CheckoutRequestID:  payment.CheckoutRequestID,
		MerchantRequestID:  payment.MerchantRequestID,
		AmountCents:        payment.AmountCents,
		PhoneNumber:        payment.PhoneNumber,
		AccountReference:   payment.AccountReference,
		TransactionDesc:    payment.TransactionDesc,
		Status:             string(payment.Status),
		ResultCode:         payment.ResultCode,
		ResultDesc:         payment.ResultDesc,
		MpesaReceiptNumber: payment.MpesaReceiptNumber,
		TransactionDate:    payment.TransactionDate,
		CreatedAt:          payment.CreatedAt,
		UpdatedAt:          payment.UpdatedAt,
	}
}

// modelToEntity converts a payment model to an entity
func (r *PaymentRepository) modelToEntity(mdl *model.Payment) *entity.Payment {
	return &entity.Payment{
		ID:                 mdl.ID,
		CheckoutRequestID:  mdl.CheckoutRequestID,
		MerchantRequestID:  mdl.MerchantRequestID,
		AmountCents:        mdl.AmountCents,
		PhoneNumber:        mdl.PhoneNumber,
		AccountReference:   mdl.AccountReference,
		TransactionDesc:    mdl.TransactionDesc,
		Status:             entity.TransactionStatus(mdl.Status),
		ResultCode:         mdl.ResultCode,
		ResultDesc:         mdl.ResultDesc,
		MpesaReceiptNumber: mdl.MpesaReceiptNumber,
		TransactionDate:    mdl.TransactionDate,
		CreatedAt:          mdl.CreatedAt,
		UpdatedAt:          mdl.UpdatedAt,
	}
}

// Create saves a new PENDING payment
func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	r.logger.Debug("Creating payment", map[string]any{
		"checkout_request_id": payment.CheckoutRequestID,
		"phone_number":        payment.PhoneNumber,
	})

	paymentModel := r.entityToModel(payment)
	result := r.db.WithContext(ctx).Create(&paymentModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate payment detected", map[string]any{
				"checkout_request_id": payment.CheckoutRequestID,
			})
			return errs.ErrDuplicateRecord
		}
		r.logger.Error("Failed to create payment", map[string]any{
			"checkout_request_id": payment.CheckoutRequestID,
			"error":               result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("Payment created", map[string]any{
		"checkout_request_id": payment.CheckoutRequestID,
		"amount_cents":        payment.AmountCents,
	})
	return nil
}

// GetByCheckoutRequestID retrieves a payment by its vendor correlation id
func (r *PaymentRepository) GetByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*entity.Payment, error) {
	var paymentModel model.Payment
	result := r.db.WithContext(ctx).
		Where("checkout_request_id = ?", checkoutRequestID).
		First(&paymentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get payment", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               result.Error.Error(),
		})
		return nil, wrapStoreError(result.Error)
	}

	return r.modelToEntity(&paymentModel), nil
}

// ApplyResult writes a terminal result, conditional on the payment still
// being PENDING. A redelivered terminal callback reports updated=false with
// no error.
func (r *PaymentRepository) ApplyResult(ctx context.Context, checkoutRequestID string, result entity.PaymentResult) (bool, error) {
	updates := map[string]any{
		"status":      string(result.Status()),
		"result_code": result.ResultCode,
		"result_desc": result.ResultDesc,
	}
	if result.MpesaReceiptNumber != "" {
		updates["mpesa_receipt_number"] = result.MpesaReceiptNumber
	}
	if result.TransactionDate != nil {
		updates["transaction_date"] = result.TransactionDate
	}

	updateResult := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("checkout_request_id = ? AND status = ?", checkoutRequestID, string(entity.StatusPending)).
		Updates(updates)
	if updateResult.Error != nil {
		r.logger.Error("Failed to apply payment result", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"error":               updateResult.Error.Error(),
		})
		return false, wrapStoreError(updateResult.Error)
	}
	if updateResult.RowsAffected > 0 {
		r.logger.Info("Payment result applied", map[string]any{
			"checkout_request_id": checkoutRequestID,
			"result_code":         result.ResultCode,
			"status":              string(result.Status()),
		})
		return true, nil
	}

	// No PENDING row was touched: either the payment already settled or the
	// correlation id is unknown.
	var count int64
	countResult := r.db.WithContext(ctx).Model(&model.Payment{}).
		Where("checkout_request_id = ?", checkoutRequestID).
		Count(&count)
	if countResult.Error != nil {
		return false, wrapStoreError(countResult.Error)
	}
	if count == 0 {
		return false, errs.ErrTransactionNotFound
	}
	return false, nil
}

// ListRecent returns the most recently created payments, newest first
func (r *PaymentRepository) ListRecent(ctx context.Context, limit int) ([]*entity.Payment, error) {
	var models []model.Payment
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		r.logger.Error("Failed to list payments", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, wrapStoreError(result.Error)
	}

	payments := make([]*entity.Payment, 0, len(models))
	for i := range models {
		payments = append(payments, r.modelToEntity(&models[i]))
	}
	return payments, nil
}
