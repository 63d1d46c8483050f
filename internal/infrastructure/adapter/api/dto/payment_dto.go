package dto

import (
	"time"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
)

// InitiatePaymentRequest is the body for POST /initiate.
type InitiatePaymentRequest struct {
	PhoneNumber      string  `json:"phoneNumber" binding:"required"`
	Amount           float64 `json:"amount" binding:"required"`
	AccountReference string  `json:"accountReference" binding:"required"`
	TransactionDesc  string  `json:"transactionDesc"`
}

// PaymentResponse is the serialized form of a payment record.
type PaymentResponse struct {
	ID                 string     `json:"id"`
	CheckoutRequestID  string     `json:"checkoutRequestId"`
	MerchantRequestID  string     `json:"merchantRequestId"`
	Amount             float64    `json:"amount"`
	PhoneNumber        string     `json:"phoneNumber"`
	AccountReference   string     `json:"accountReference"`
	TransactionDesc    string     `json:"transactionDesc"`
	Status             string     `json:"status"`
	ResultCode         *int       `json:"resultCode,omitempty"`
	ResultDesc         string     `json:"resultDesc,omitempty"`
	MpesaReceiptNumber string     `json:"mpesaReceiptNumber,omitempty"`
	TransactionDate    *time.Time `json:"transactionDate,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// PaymentStatusResponse pairs the record with the rate-limit flag so a
// polling client can widen its interval.
type PaymentStatusResponse struct {
	PaymentResponse
	RateLimited bool `json:"rateLimited,omitempty"`
}

// FromPayment converts a payment entity to its response form.
func FromPayment(p *entity.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 p.ID,
		CheckoutRequestID:  p.CheckoutRequestID,
		MerchantRequestID:  p.MerchantRequestID,
		Amount:             p.Amount(),
		PhoneNumber:        p.PhoneNumber,
		AccountReference:   p.AccountReference,
		TransactionDesc:    p.TransactionDesc,
		Status:             string(p.Status),
		ResultCode:         p.ResultCode,
		ResultDesc:         p.ResultDesc,
		MpesaReceiptNumber: p.MpesaReceiptNumber,
		TransactionDate:    p.TransactionDate,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// FromPayments converts a list of payment entities, newest first.
func FromPayments(payments []*entity.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromPayment(p))
	}
	return out
}
