package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	paymentUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// PaymentHandler handles STK Push payment HTTP requests
type PaymentHandler struct {
	payments *paymentUseCase.Service
	logger   coreport.Logger
}

// NewPaymentHandler creates a new payment handler instance
func NewPaymentHandler(payments *paymentUseCase.Service, logger coreport.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, logger: logger}
}

// Initiate handles POST /initiate
func (h *PaymentHandler) Initiate(c *gin.Context) {
	var req dto.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	pmt, err := h.payments.Initiate(c.Request.Context(), paymentUseCase.InitiateRequest{
		PhoneNumber:      req.PhoneNumber,
		Amount:           req.Amount,
		AccountReference: req.AccountReference,
		TransactionDesc:  req.TransactionDesc,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"Payment initiated. Check your phone to complete the transaction.",
		dto.FromPayment(pmt),
	))
}

// Status handles GET /status/:checkoutRequestId
func (h *PaymentHandler) Status(c *gin.Context) {
	checkoutRequestID := c.Param("checkoutRequestId")

	result, err := h.payments.Status(c.Request.Context(), checkoutRequestID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.PaymentStatusResponse{
		PaymentResponse: dto.FromPayment(result.Payment),
		RateLimited:     result.RateLimited,
	}))
}

// History handles GET /history
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.payments.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.FromPayments(payments)))
}
