package model

import (
	"time"
)

// BalanceQuery is the database model for account balance enquiries.
type BalanceQuery struct {
	ID                       string `gorm:"primaryKey;size:36"`
	ConversationID           string `gorm:"uniqueIndex;not null;size:255"`
	OriginatorConversationID string `gorm:"size:255"`
	PartyA                   string `gorm:"not null;size:20"`
	IdentifierType           string `gorm:"size:10"`
	Remarks                  string `gorm:"size:255"`
	Status                   string `gorm:"not null;size:20;index"`
	ResultCode               *int
	ResultDesc               string    `gorm:"type:text"`
	AccountBalance           string    `gorm:"type:text"`
	CreatedAt                time.Time `gorm:"not null;index"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for BalanceQuery
func (BalanceQuery) TableName() string {
	return "balance_queries"
}

// StatusQuery is the database model for transaction status enquiries.
type StatusQuery struct {
	ID                       string `gorm:"primaryKey;size:36"`
	ConversationID           string `gorm:"uniqueIndex;not null;size:255"`
	OriginatorConversationID string `gorm:"size:255"`
	TransactionID            string `gorm:"not null;size:100;index"`
	PartyA                   string `gorm:"not null;size:20"`
	IdentifierType           string `gorm:"size:10"`
	Remarks                  string `gorm:"size:255"`
	Occasion                 string `gorm:"size:255"`
	Status                   string `gorm:"not null;size:20;index"`
	ResultCode               *int
	ResultDesc               string    `gorm:"type:text"`
	ReceiptNumber            string    `gorm:"size:100"`
	TransactionData          string    `gorm:"type:text"`
	CreatedAt                time.Time `gorm:"not null;index"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for StatusQuery
func (StatusQuery) TableName() string {
	return "status_queries"
}
