package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
)

// QR transaction codes accepted by Daraja.
const (
	TrxCodeBuyGoods     = "BG"
	TrxCodeWithdrawCash = "WA"
	TrxCodePayBill      = "PB"
	TrxCodeSendMoney    = "SM"
)

// DefaultCPI is the sandbox credit party identifier used when the caller
// does not supply one.
const DefaultCPI = "174379"

// IsValidTrxCode reports whether trxCode names a supported QR flow.
func IsValidTrxCode(trxCode string) bool {
	switch trxCode {
	case TrxCodeBuyGoods, TrxCodeWithdrawCash, TrxCodePayBill, TrxCodeSendMoney:
		return true
	}
	return false
}

// QRCode stores a generated M-Pesa QR code. Unlike the transaction kinds it
// has no asynchronous lifecycle: it is ACTIVE from creation.
type QRCode struct {
	ID           string
	MerchantName string
	RefNo        string
	AmountCents  *int64
	TrxCode      string
	CPI          string
	Size         string
	QRCodeData   string // rendered PNG data URL
	QRCodeString string // raw vendor-issued QR payload
	Status       string
	CreatedAt    time.Time
}

// NewQRCode builds an ACTIVE QR code record from validated inputs, the raw
// vendor QR string and its rendered image.
func NewQRCode(
	merchantName string,
	refNo string,
	amount *float64,
	trxCode string,
	cpi string,
	size string,
	qrCodeData string,
	qrCodeString string,
	timeProvider coreport.TimeProvider,
) (*QRCode, error) {
	if merchantName == "" || refNo == "" {
		return nil, errs.ErrMissingField
	}
	if !IsValidTrxCode(trxCode) {
		return nil, fmt.Errorf("%w: use BG, WA, PB, or SM", errs.ErrInvalidTrxCode)
	}

	var amountCents *int64
	if amount != nil {
		cents, err := ValidateAmount(*amount)
		if err != nil {
			return nil, err
		}
		amountCents = &cents
	}

	if cpi == "" {
		cpi = DefaultCPI
	}
	if size == "" {
		size = "300"
	}

	return &QRCode{
		ID:           uuid.NewString(),
		MerchantName: merchantName,
		RefNo:        refNo,
		AmountCents:  amountCents,
		TrxCode:      trxCode,
		CPI:          cpi,
		Size:         size,
		QRCodeData:   qrCodeData,
		QRCodeString: qrCodeString,
		Status:       StatusActive,
		CreatedAt:    timeProvider.Now(),
	}, nil
}
