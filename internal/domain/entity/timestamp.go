package entity

import (
	"fmt"
	"time"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
)

// CompactTimeLayout is the packed local-time format Daraja uses both for the
// STK password timestamp and for TransactionDate values in callbacks.
const CompactTimeLayout = "20060102150405"

// FormatCompactTime renders t in the vendor's YYYYMMDDHHmmss form.
func FormatCompactTime(t time.Time) string {
	return t.Format(CompactTimeLayout)
}

// ParseCompactTime decodes a packed YYYYMMDDHHmmss value, as delivered in
// callback metadata, into a calendar time in the local zone.
func ParseCompactTime(value string) (time.Time, error) {
	t, err := time.ParseInLocation(CompactTimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad transaction date %q", errs.ErrInvalidCallback, value)
	}
	return t, nil
}
