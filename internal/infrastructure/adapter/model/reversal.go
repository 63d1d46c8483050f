package model

import (
	"time"
)

// Reversal is the database model for transaction reversals.
type Reversal struct {
	ID                       string `gorm:"primaryKey;size:36"`
	ConversationID           string `gorm:"uniqueIndex;not null;size:255"`
	OriginatorConversationID string `gorm:"size:255"`
	TransactionID            string `gorm:"not null;size:100;index"`
	AmountCents              int64  `gorm:"not null"`
	ReceiverParty            string `gorm:"not null;size:20"`
	Remarks                  string `gorm:"size:255"`
	Occasion                 string `gorm:"size:255"`
	Status                   string `gorm:"not null;size:20;index"`
	ResultCode               *int
	ResultDesc               string    `gorm:"type:text"`
	CreatedAt                time.Time `gorm:"not null;index"`
	UpdatedAt                time.Time `gorm:"not null"`
}

// TableName specifies the table name for Reversal
func (Reversal) TableName() string {
	return "reversals"
}
