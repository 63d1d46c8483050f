package dto

import (
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// GenerateQRRequest is the body for POST /qrcode.
type GenerateQRRequest struct {
	MerchantName string   `json:"merchantName" binding:"required"`
	RefNo        string   `json:"refNo" binding:"required"`
	Amount       *float64 `json:"amount"`
	TrxCode      string   `json:"trxCode" binding:"required"`
	CPI          string   `json:"cpi"`
	Size         string   `json:"size"`
}

// QRCodeResponse is the serialized form of a QR code record.
type QRCodeResponse struct {
	ID           string    `json:"id"`
	MerchantName string    `json:"merchantName"`
	RefNo        string    `json:"refNo"`
	Amount       *float64  `json:"amount,omitempty"`
	TrxCode      string    `json:"trxCode"`
	QRCodeData   string    `json:"qrCodeData"`
	QRCodeString string    `json:"qrCodeString,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromQRCode converts a QR code entity to its response form.
func FromQRCode(qr *entity.QRCode) QRCodeResponse {
	var amount *float64
	if qr.AmountCents != nil {
		value := entity.AmountFromCents(*qr.AmountCents)
		amount = &value
	}
	return QRCodeResponse{
		ID:           qr.ID,
		MerchantName: qr.MerchantName,
		RefNo:        qr.RefNo,
		Amount:       amount,
		TrxCode:      qr.TrxCode,
		QRCodeData:   qr.QRCodeData,
		QRCodeString: qr.QRCodeString,
		Status:       qr.Status,
		CreatedAt:    qr.CreatedAt,
	}
}

// FromQRCodes converts a list of QR code entities, newest first.
func FromQRCodes(qrs []*entity.QRCode) []QRCodeResponse {
	out := make([]QRCodeResponse, 0, len(qrs))
	for _, qr := range qrs {
		out = append(out, FromQRCode(qr))
	}
	return out
}
