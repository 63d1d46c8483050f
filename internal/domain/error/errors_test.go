package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{ErrInvalidPhoneNumber, CodeInvalidPhoneNumber},
		{ErrInvalidAmount, CodeInvalidAmount},
		{ErrMissingField, CodeMissingField},
		{ErrInvalidCommandID, CodeInvalidCommandID},
		{ErrInvalidTrxCode, CodeInvalidTrxCode},
		{ErrInvalidCallback, CodeInvalidCallback},
		{ErrDuplicateRecord, CodeDuplicateRecord},
		{ErrTransactionNotFound, CodeTransactionNotFound},
		{ErrVendorRejected, CodeVendorRejected},
		{ErrRateLimited, CodeRateLimited},
		{ErrVendorUnavailable, CodeVendorUnavailable},
		{ErrInternalServer, CodeInternalServer},
		{errors.New("anything else"), CodeInternalServer},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ErrorCode(tc.err), tc.err.Error())
	}

	// Wrapped errors keep their code.
	wrapped := fmt.Errorf("%w: amount below minimum", ErrInvalidAmount)
	assert.Equal(t, CodeInvalidAmount, ErrorCode(wrapped))
}

func TestVendorError(t *testing.T) {
	t.Run("rejection carries the vendor description", func(t *testing.T) {
		err := NewVendorRejection("stk_push", "Unable to lock subscriber")
		assert.ErrorIs(t, err, ErrVendorRejected)

		var vendorErr *VendorError
		require.True(t, errors.As(err, &vendorErr))
		assert.Equal(t, "Unable to lock subscriber", vendorErr.Message())
		assert.Contains(t, err.Error(), "stk_push")
		assert.Contains(t, err.Error(), "Unable to lock subscriber")
	})

	t.Run("failure wraps the transport error", func(t *testing.T) {
		cause := errors.New("connection refused")
		err := NewVendorFailure("b2c_payment", cause)
		assert.ErrorIs(t, err, ErrVendorUnavailable)

		var vendorErr *VendorError
		require.True(t, errors.As(err, &vendorErr))
		assert.Contains(t, vendorErr.Message(), "connection refused")
	})

	t.Run("log fields name the operation and code", func(t *testing.T) {
		err := NewVendorRejection("stk_push", "declined")
		var vendorErr *VendorError
		require.True(t, errors.As(err, &vendorErr))

		fields := vendorErr.LogFields()
		assert.Equal(t, "stk_push", fields["operation"])
		assert.Equal(t, CodeVendorRejected, fields["error_code"])
	})
}

func TestReconcileError(t *testing.T) {
	err := &ReconcileError{
		CorrelationID: "AG_1",
		Kind:          "b2c",
		Err:           ErrDatabaseConnection,
	}
	assert.ErrorIs(t, err, ErrDatabaseConnection)
	assert.Contains(t, err.Error(), "AG_1")
	assert.Contains(t, err.Error(), "b2c")
	assert.Equal(t, "b2c", err.LogFields()["kind"])
}

func TestClassifiers(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrTransactionNotFound))
	assert.False(t, IsNotFoundError(ErrInvalidAmount))

	assert.True(t, IsRateLimitedError(&VendorError{Operation: "stk_query", Err: ErrRateLimited}))
	assert.False(t, IsRateLimitedError(ErrVendorRejected))

	for _, err := range []error{
		ErrInvalidPhoneNumber, ErrInvalidAmount, ErrMissingField,
		ErrInvalidCommandID, ErrInvalidTrxCode, ErrInvalidCallback,
	} {
		assert.True(t, IsValidationError(err), err.Error())
	}
	assert.False(t, IsValidationError(ErrTransactionNotFound))
	assert.False(t, IsValidationError(ErrVendorRejected))
}
