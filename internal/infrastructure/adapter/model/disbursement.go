package model

import (
	"time"
)

// B2CTransaction is the database model for business-to-customer
// disbursements.
type B2CTransaction struct {
	ID                       string `gorm:"primaryKey;size:36"`
	ConversationID           string `gorm:"uniqueIndex;not null;size:255"`
	OriginatorConversationID string `gorm:"size:255"`
	AmountCents              int64  `gorm:"not null"`
	PhoneNumber              string `gorm:"not null;size:15"`
	CommandID                string `gorm:"not null;size:50"`
	Remarks                  string `gorm:"size:255"`
	Occasion                 string `gorm:"size:255"`
	Status                   string `gorm:"not null;size:20;index"`
	ResultCode               *int
	ResultDesc               string    `gorm:"type:text"`
	MpesaTransactionID       string    `gorm:"size:100"`
	CreatedAt                time.Time `gorm:"not null;index"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for B2CTransaction
func (B2CTransaction) TableName() string {
	return "b2c_transactions"
}

// B2BTransaction is the database model for business-to-business payments.
type B2BTransaction struct {
	ID                       string `gorm:"primaryKey;size:36"`
	ConversationID           string `gorm:"uniqueIndex;not null;size:255"`
	OriginatorConversationID string `gorm:"size:255"`
	AmountCents              int64  `gorm:"not null"`
	PartyA                   string `gorm:"size:20"`
	PartyB                   string `gorm:"not null;size:20"`
	CommandID                string `gorm:"not null;size:50"`
	AccountReference         string `gorm:"size:100"`
	Remarks                  string `gorm:"size:255"`
	Status                   string `gorm:"not null;size:20;index"`
	ResultCode               *int
	ResultDesc               string    `gorm:"type:text"`
	MpesaTransactionID       string    `gorm:"size:100"`
	CreatedAt                time.Time `gorm:"not null;index"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for B2BTransaction
func (B2BTransaction) TableName() string {
	return "b2b_transactions"
}
