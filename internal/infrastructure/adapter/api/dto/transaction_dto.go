package dto

import (
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// B2CPaymentRequest is the body for POST /b2c.
type B2CPaymentRequest struct {
	PhoneNumber string  `json:"phoneNumber" binding:"required"`
	Amount      float64 `json:"amount" binding:"required"`
	CommandID   string  `json:"commandId" binding:"required"`
	Remarks     string  `json:"remarks" binding:"required"`
	Occasion    string  `json:"occasion"`
}

// B2BPaymentRequest is the body for POST /b2b.
type B2BPaymentRequest struct {
	PartyB           string  `json:"partyB" binding:"required"`
	Amount           float64 `json:"amount" binding:"required"`
	CommandID        string  `json:"commandId" binding:"required"`
	AccountReference string  `json:"accountReference" binding:"required"`
	Remarks          string  `json:"remarks" binding:"required"`
}

// BalanceQueryRequest is the body for POST /balance.
type BalanceQueryRequest struct {
	PartyA         string `json:"partyA" binding:"required"`
	IdentifierType string `json:"identifierType" binding:"required"`
	Remarks        string `json:"remarks" binding:"required"`
}

// StatusQueryRequest is the body for POST /transaction-status.
type StatusQueryRequest struct {
	TransactionID  string `json:"transactionId" binding:"required"`
	PartyA         string `json:"partyA" binding:"required"`
	IdentifierType string `json:"identifierType" binding:"required"`
	Remarks        string `json:"remarks" binding:"required"`
	Occasion       string `json:"occasion"`
}

// ReversalRequest is the body for POST /transaction-reversal.
type ReversalRequest struct {
	TransactionID string  `json:"transactionId" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	ReceiverParty string  `json:"receiverParty" binding:"required"`
	Remarks       string  `json:"remarks"`
	Occasion      string  `json:"occasion"`
}

// B2CTransactionResponse is the serialized form of a B2C record.
type B2CTransactionResponse struct {
	ID                       string    `json:"id"`
	ConversationID           string    `json:"conversationId"`
	OriginatorConversationID string    `json:"originatorConversationId"`
	Amount                   float64   `json:"amount"`
	PhoneNumber              string    `json:"phoneNumber"`
	CommandID                string    `json:"commandId"`
	Remarks                  string    `json:"remarks"`
	Occasion                 string    `json:"occasion,omitempty"`
	Status                   string    `json:"status"`
	ResultCode               *int      `json:"resultCode,omitempty"`
	ResultDesc               string    `json:"resultDesc,omitempty"`
	MpesaTransactionID       string    `json:"mpesaTransactionId,omitempty"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// FromB2CTransaction converts a B2C entity to its response form.
func FromB2CTransaction(tx *entity.B2CTransaction) B2CTransactionResponse {
	return B2CTransactionResponse{
		ID:                       tx.ID,
		ConversationID:           tx.ConversationID,
		OriginatorConversationID: tx.OriginatorConversationID,
		Amount:                   entity.AmountFromCents(tx.AmountCents),
		PhoneNumber:              tx.PhoneNumber,
		CommandID:                tx.CommandID,
		Remarks:                  tx.Remarks,
		Occasion:                 tx.Occasion,
		Status:                   string(tx.Status),
		ResultCode:               tx.ResultCode,
		ResultDesc:               tx.ResultDesc,
		MpesaTransactionID:       tx.MpesaTransactionID,
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
	}
}

// FromB2CTransactions converts a list of B2C entities, newest first.
func FromB2CTransactions(txs []*entity.B2CTransaction) []B2CTransactionResponse {
	out := make([]B2CTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromB2CTransaction(tx))
	}
	return out
}

// B2BTransactionResponse is the serialized form of a B2B record.
type B2BTransactionResponse struct {
	ID                       string    `json:"id"`
	ConversationID           string    `json:"conversationId"`
	OriginatorConversationID string    `json:"originatorConversationId"`
	Amount                   float64   `json:"amount"`
	PartyA                   string    `json:"partyA"`
	PartyB                   string    `json:"partyB"`
	CommandID                string    `json:"commandId"`
	AccountReference         string    `json:"accountReference"`
	Remarks                  string    `json:"remarks"`
	Status                   string    `json:"status"`
	ResultCode               *int      `json:"resultCode,omitempty"`
	ResultDesc               string    `json:"resultDesc,omitempty"`
	MpesaTransactionID       string    `json:"mpesaTransactionId,omitempty"`
	CreatedAt                time.Time `json:"createdAt"`
	UpdatedAt                time.Time `json:"updatedAt"`
}

// FromB2BTransaction converts a B2B entity to its response form.
func FromB2BTransaction(tx *entity.B2BTransaction) B2BTransactionResponse {
	return B2BTransactionResponse{
		ID:                       tx.ID,
		ConversationID:           tx.ConversationID,
		OriginatorConversationID: tx.OriginatorConversationID,
		Amount:                   entity.AmountFromCents(tx.AmountCents),
		PartyA:                   tx.PartyA,
		PartyB:                   tx.PartyB,
		CommandID:                tx.CommandID,
		AccountReference:         tx.AccountReference,
		Remarks:                  tx.Remarks,
		Status:                   string(tx.Status),
		ResultCode:               tx.ResultCode,
		ResultDesc:               tx.ResultDesc,
		MpesaTransactionID:       tx.MpesaTransactionID,
		CreatedAt:                tx.CreatedAt,
		UpdatedAt:                tx.UpdatedAt,
	}
}

// FromB2BTransactions converts a list of B2B entities, newest first.
func FromB2BTransactions(txs []*entity.B2BTransaction) []B2BTransactionResponse {
	out := make([]B2BTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, FromB2BTransaction(tx))
	}
	return out
}

// BalanceQueryResponse is the serialized form of a balance enquiry record.
type BalanceQueryResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	PartyA         string    `json:"partyA"`
	Status         string    `json:"status"`
	AccountBalance string    `json:"accountBalance,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FromBalanceQuery converts a balance enquiry entity to its response form.
func FromBalanceQuery(q *entity.BalanceQuery) BalanceQueryResponse {
	return BalanceQueryResponse{
		ID:             q.ID,
		ConversationID: q.ConversationID,
		PartyA:         q.PartyA,
		Status:         string(q.Status),
		AccountBalance: q.AccountBalance,
		CreatedAt:      q.CreatedAt,
	}
}

// StatusQueryResponse is the serialized form of a status enquiry record.
type StatusQueryResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	TransactionID  string    `json:"transactionId"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// FromStatusQuery converts a status enquiry entity to its response form.
func FromStatusQuery(q *entity.StatusQuery) StatusQueryResponse {
	return StatusQueryResponse{
		ID:             q.ID,
		ConversationID: q.ConversationID,
		TransactionID:  q.TransactionID,
		Status:         string(q.Status),
		CreatedAt:      q.CreatedAt,
	}
}

// ReversalResponse is the serialized form of a reversal record.
type ReversalResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	TransactionID  string    `json:"transactionId"`
	Amount         float64   `json:"amount"`
	ReceiverParty  string    `json:"receiverParty"`
	Status         string    `json:"status"`
	ResultCode     *int      `json:"resultCode,omitempty"`
	ResultDesc     string    `json:"resultDesc,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FromReversal converts a reversal entity to its response form.
func FromReversal(rev *entity.Reversal) ReversalResponse {
	return ReversalResponse{
		ID:             rev.ID,
		ConversationID: rev.ConversationID,
		TransactionID:  rev.TransactionID,
		Amount:         entity.AmountFromCents(rev.AmountCents),
		ReceiverParty:  rev.ReceiverParty,
		Status:         string(rev.Status),
		ResultCode:     rev.ResultCode,
		ResultDesc:     rev.ResultDesc,
		CreatedAt:      rev.CreatedAt,
		UpdatedAt:      rev.UpdatedAt,
	}
}
