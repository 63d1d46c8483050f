package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// respondError maps a domain error onto an HTTP status and error envelope.
func respondError(c *gin.Context, err error) {
	message := err.Error()

	var vendorErr *errs.VendorError
	if errors.As(err, &vendorErr) {
		message = vendorErr.Message()
	}

	status := http.StatusInternalServerError
	switch {
	case errs.IsValidationError(err):
		status = http.StatusBadRequest
	case errs.IsNotFoundError(err):
		status = http.StatusNotFound
	case errs.IsRateLimitedError(err):
		status = http.StatusTooManyRequests
	case errors.Is(err, errs.ErrVendorRejected), errors.Is(err, errs.ErrVendorUnavailable):
		status = http.StatusBadGateway
	}

	c.JSON(status, dto.Error(errs.ErrorCode(err), message))
}

// respondBindError answers a request whose body failed binding.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.Error(
		errs.CodeMissingField,
		"Invalid request format: "+err.Error(),
	))
}
