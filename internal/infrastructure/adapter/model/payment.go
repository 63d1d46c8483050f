package model

import (
	"time"
)

// Payment is the database model for STK Push payments.
type Payment struct {
	ID                 string `gorm:"primaryKey;size:36"`
	CheckoutRequestID  string `gorm:"uniqueIndex;not null;size:255"`
	MerchantRequestID  string `gorm:"size:255"`
	AmountCents        int64  `gorm:"not null"`
	PhoneNumber        string `gorm:"not null;size:15"`
	AccountReference   string `gorm:"size:100"`
	TransactionDesc    string `gorm:"size:255"`
	Status             string `gorm:"not null;size:20;index"`
	ResultCode         *int
	ResultDesc         string `gorm:"type:text"`
	MpesaReceiptNumber string `gorm:"size:100"`
	TransactionDate    *time.Time
	CreatedAt          time.Time `gorm:"not null;index"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName specifies the table name for Payment
func (Payment) TableName() string {
	return "payments"
}
