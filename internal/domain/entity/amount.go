package entity

import (
	"fmt"
	"math"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

// MinChargeableAmount is the smallest amount M-Pesa will charge, in KES.
const MinChargeableAmount = 1

// maxAmountCents guards against overflow when converting to cents.
const maxAmountCents = math.MaxInt64 / 100

// ValidateAmount checks a KES amount against the minimum charge and converts
// it to cents for precise storage. Daraja itself only accepts whole shillings,
// so callers round before building the vendor payload, but the store keeps
// cent precision.
func ValidateAmount(amount float64) (int64, error) {
	return validateAmountAbove(amount, MinChargeableAmount)
}

// ValidateReversalAmount checks a reversal amount, which only has to be
// positive rather than a full chargeable shilling.
func ValidateReversalAmount(amount float64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", errs.ErrInvalidAmount)
	}
	return validateAmountAbove(amount, 0)
}

func validateAmountAbove(amount, minimum float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, fmt.Errorf("%w: not a number", errs.ErrInvalidAmount)
	}
	if amount < minimum {
		return 0, fmt.Errorf("%w: amount must be at least %d KES", errs.ErrInvalidAmount, MinChargeableAmount)
	}
	if amount > maxAmountCents {
		return 0, fmt.Errorf("%w: amount too large", errs.ErrInvalidAmount)
	}
	return int64(math.Round(amount * 100)), nil
}

// AmountFromCents converts a cent-precision amount back to KES for display
// and for vendor payloads.
func AmountFromCents(cents int64) float64 {
	return float64(cents) / 100
}

// WholeShillings rounds a cent-precision amount to the whole-shilling value
// Daraja expects in request payloads.
func WholeShillings(cents int64) int64 {
	return int64(math.Round(float64(cents) / 100))
}
