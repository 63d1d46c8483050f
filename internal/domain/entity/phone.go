package entity

import (
	"fmt"
	"strings"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

const countryCode = "254"

// NormalizePhoneNumber converts a Kenyan subscriber number to international
// MSISDN form. Accepted shapes:
//
//	2547XXXXXXXX (12 digits)  -> unchanged
//	07XXXXXXXX   (10 digits)  -> leading zero replaced with 254
//	7XXXXXXXX    (9 digits)   -> 254 prepended
//
// Anything else fails validation before a vendor call is attempted.
func NormalizePhoneNumber(phoneNumber string) (string, error) {
	cleaned := strings.TrimSpace(phoneNumber)
	if !digitsOnly(cleaned) {
		return "", fmt.Errorf("%w: provide the number as 07XXXXXXXX or 2547XXXXXXXX",
			errs.ErrInvalidPhoneNumber)
	}

	switch {
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, countryCode):
		return cleaned, nil
	case len(cleaned) == 10 && strings.HasPrefix(cleaned, "0"):
		return countryCode + cleaned[1:], nil
	case len(cleaned) == 9 && strings.HasPrefix(cleaned, "7"):
		return countryCode + cleaned, nil
	}

	return "", fmt.Errorf("%w: provide the number as 07XXXXXXXX or 2547XXXXXXXX",
		errs.ErrInvalidPhoneNumber)
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
