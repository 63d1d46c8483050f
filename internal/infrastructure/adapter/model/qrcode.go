package model

import (
	"time"
)

// QRCode is the database model for generated M-Pesa QR codes.
type QRCode struct {
	ID           string `gorm:"primaryKey;size:36"`
	MerchantName string `gorm:"not null;size:100"`
	RefNo        string `gorm:"not null;size:100"`
	AmountCents  *int64
	TrxCode      string    `gorm:"not null;size:2"`
	CPI          string    `gorm:"column:cpi;size:20"`
	Size         string    `gorm:"size:10"`
	QRCodeData   string    `gorm:"type:text"`
	QRCodeString string    `gorm:"type:text"`
	Status       string    `gorm:"not null;size:20"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for QRCode
func (QRCode) TableName() string {
	return "qr_codes"
}
