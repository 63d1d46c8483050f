package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidPhoneNumber  = 4001
	CodeInvalidAmount       = 4002
	CodeMissingField        = 4003
	CodeInvalidCommandID    = 4004
	CodeInvalidTrxCode      = 4005
	CodeInvalidCallback     = 4006
	CodeDuplicateRecord     = 4007
	CodeVendorRejected      = 4020
	CodeTransactionNotFound = 4040
	CodeRateLimited         = 4290

	// 5xxx - Server errors
	CodeVendorUnavailable = 5020
	CodeInternalServer    = 5000
)

// Base error types
var (
	// ErrInvalidPhoneNumber is returned when a phone number cannot be normalized to MSISDN form
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")

	// ErrInvalidAmount is returned when the amount is missing, malformed or below the minimum
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMissingField is returned when a required request field is absent
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidCommandID is returned when a B2C/B2B command identifier is not recognised
	ErrInvalidCommandID = errors.New("invalid command ID")

	// ErrInvalidTrxCode is returned when a QR transaction code is not one of BG, WA, PB, SM
	ErrInvalidTrxCode = errors.New("invalid transaction code")

	// ErrInvalidCallback is returned when a vendor callback payload has an unexpected shape
	ErrInvalidCallback = errors.New("invalid callback payload")

	// ErrTransactionNotFound is returned when no record matches a correlation id
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrVendorRejected is returned when Daraja accepted the HTTP call but declined the request
	ErrVendorRejected = errors.New("request rejected by M-Pesa")

	// ErrVendorUnavailable is returned on transport failures or unexpected vendor payloads
	ErrVendorUnavailable = errors.New("M-Pesa request failed")

	// ErrRateLimited is returned when Daraja throttles the caller
	ErrRateLimited = errors.New("rate limited by M-Pesa")

	// ErrDuplicateRecord is returned when a correlation id is already stored
	ErrDuplicateRecord = errors.New("record with this correlation id already exists")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidPhoneNumber):
		return CodeInvalidPhoneNumber
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrMissingField):
		return CodeMissingField
	case errors.Is(err, ErrInvalidCommandID):
		return CodeInvalidCommandID
	case errors.Is(err, ErrInvalidTrxCode):
		return CodeInvalidTrxCode
	case errors.Is(err, ErrInvalidCallback):
		return CodeInvalidCallback
	case errors.Is(err, ErrDuplicateRecord):
		return CodeDuplicateRecord
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrVendorRejected):
		return CodeVendorRejected
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrVendorUnavailable):
		return CodeVendorUnavailable
	default:
		return CodeInternalServer
	}
}

// VendorError carries the description Daraja returned alongside the
// classification of what went wrong.
type VendorError struct {
	Operation   string
	Description string
	Err         error
}

// Error implements the error interface for VendorError
func (e *VendorError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Operation, e.Description)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *VendorError) Unwrap() error {
	return e.Err
}

// Message returns the vendor-facing description, falling back to a generic
// failure message when Daraja supplied none.
func (e *VendorError) Message() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Err.Error()
}

// LogFields returns a map of fields for structured logging
func (e *VendorError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "vendor_error",
		"operation":   e.Operation,
		"description": e.Description,
		"error":       e.Err.Error(),
		"error_code":  ErrorCode(e.Err),
	}
}

// NewVendorRejection creates an error for a non-success Daraja response code
func NewVendorRejection(operation, description string) error {
	return &VendorError{Operation: operation, Description: description, Err: ErrVendorRejected}
}

// NewVendorFailure creates an error for a transport-level or malformed-payload failure
func NewVendorFailure(operation string, err error) error {
	return &VendorError{Operation: operation, Err: fmt.Errorf("%w: %v", ErrVendorUnavailable, err)}
}

// ReconcileError represents a failure while applying a vendor callback to a stored record
type ReconcileError struct {
	CorrelationID string
	Kind          string
	Err           error
}

// Error implements the error interface for ReconcileError
func (e *ReconcileError) Error() string {
	return fmt.Sprintf("reconcile failed for %s %q: %v", e.Kind, e.CorrelationID, e.Err)
}

// Unwrap returns the underlying error
func (e *ReconcileError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *ReconcileError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "reconcile_error",
		"correlation_id": e.CorrelationID,
		"kind":           e.Kind,
		"error":          e.Err.Error(),
		"error_code":     ErrorCode(e.Err),
	}
}

// IsNotFoundError checks if the error is a "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrTransactionNotFound)
}

// IsRateLimitedError checks if the error indicates vendor throttling
func IsRateLimitedError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsValidationError reports whether the error should map to a 400 response
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPhoneNumber) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidCommandID) ||
		errors.Is(err, ErrInvalidTrxCode) ||
		errors.Is(err, ErrInvalidCallback)
}
