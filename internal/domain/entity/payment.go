package entity

import (
	"time"

	"github.com/google/uuid"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// Payment represents a customer-to-business STK Push payment. The vendor
// issues CheckoutRequestID in its synchronous response; every later lookup
// is keyed on it.
type Payment struct {
	ID                 string
	CheckoutRequestID  string
	MerchantRequestID  string
	AmountCents        int64
	PhoneNumber        string
	AccountReference   string
	TransactionDesc    string
	Status             TransactionStatus
	ResultCode         *int
	ResultDesc         string
	MpesaReceiptNumber string
	TransactionDate    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewPayment builds a PENDING payment from validated inputs and the
// correlation ids Daraja returned at initiation.
func NewPayment(
	checkoutRequestID string,
	merchantRequestID string,
	amount float64,
	phoneNumber string,
	accountReference string,
	transactionDesc string,
	timeProvider coreport.TimeProvider,
) (*Payment, error) {
	if checkoutRequestID == "" {
		return nil, errs.ErrMissingField
	}

	amountCents, err := ValidateAmount(amount)
	if err != nil {
		return nil, err
	}

	msisdn, err := NormalizePhoneNumber(phoneNumber)
	if err != nil {
		return nil, err
	}

	now := timeProvider.Now()
	return &Payment{
		ID:                uuid.NewString(),
		CheckoutRequestID: checkoutRequestID,
		MerchantRequestID: merchantRequestID,
		AmountCents:       amountCents,
		PhoneNumber:       msisdn,
		AccountReference:  accountReference,
		TransactionDesc:   transactionDesc,
		Status:            StatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// Amount returns the payment amount in KES.
func (p *Payment) Amount() float64 {
	return AmountFromCents(p.AmountCents)
}

// PaymentResult captures the terminal fields extracted from an STK callback
// or a live status query.
type PaymentResult struct {
	ResultCode         int
	ResultDesc         string
	MpesaReceiptNumber string
	TransactionDate    *time.Time
}

// Status returns the terminal status this result implies.
func (r PaymentResult) Status() TransactionStatus {
	return StatusForResultCode(r.ResultCode)
}
