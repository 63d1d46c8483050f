package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/model"
)

// QRCodeRepository implements the QR code persistence port using GORM
type QRCodeRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewQRCodeRepository creates a new QRCodeRepository instance
func NewQRCodeRepository(db *gorm.DB, logger coreport.Logger) *QRCodeRepository {
	return &QRCodeRepository{db: db, logger: logger}
}

func (r *QRCodeRepository) modelToEntity(mdl *model.QRCode) *entity.QRCode {
	return &entity.QRCode{
		ID:           mdl.ID,
		MerchantName: mdl.MerchantName,
		RefNo:        mdl.RefNo,
		AmountCents:  mdl.AmountCents,
		TrxCode:      mdl.TrxCode,
		CPI:          mdl.CPI,
		Size:         mdl.Size,
		QRCodeData:   mdl.QRCodeData,
		QRCodeString: mdl.QRCodeString,
		Status:       mdl.Status,
		CreatedAt:    mdl.CreatedAt,
	}
}

// Create saves a generated QR code
func (r *QRCodeRepository) Create(ctx context.Context, qr *entity.QRCode) error {
	qrModel := model.QRCode{
		ID:           qr.ID,
		MerchantName: qr.MerchantName,
		RefNo:        qr.RefNo,
		AmountCents:  qr.AmountCents,
		TrxCode:      qr.TrxCode,
		CPI:          qr.CPI,
		Size:         qr.Size,
		QRCodeData:   qr.QRCodeData,
		QRCodeString: qr.QRCodeString,
		Status:       qr.Status,
		CreatedAt:    qr.CreatedAt,
	}

	result := r.db.WithContext(ctx).Create(&qrModel)
	if result.Error != nil {
		r.logger.Error("Failed to create QR code", map[string]any{
			"merchant_name": qr.MerchantName,
			"error":         result.Error.Error(),
		})
		return wrapStoreError(result.Error)
	}

	r.logger.Info("QR code created", map[string]any{
		"merchant_name": qr.MerchantName,
		"trx_code":      qr.TrxCode,
	})
	return nil
}

// ListRecent returns the most recently generated QR codes, newest first
func (r *QRCodeRepository) ListRecent(ctx context.Context, limit int) ([]*entity.QRCode, error) {
	var models []model.QRCode
	result := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&models)
	if result.Error != nil {
		return nil, wrapStoreError(result.Error)
	}

	qrCodes := make([]*entity.QRCode, 0, len(models))
	for i := range models {
		qrCodes = append(qrCodes, r.modelToEntity(&models[i]))
	}
	return qrCodes, nil
}
