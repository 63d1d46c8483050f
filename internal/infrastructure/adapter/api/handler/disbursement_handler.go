package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	disbursementUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/disbursement"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// DisbursementHandler handles B2C and B2B HTTP requests
type DisbursementHandler struct {
	disbursements *disbursementUseCase.Service
	logger        coreport.Logger
}

// NewDisbursementHandler creates a new disbursement handler instance
func NewDisbursementHandler(disbursements *disbursementUseCase.Service, logger coreport.Logger) *DisbursementHandler {
	return &DisbursementHandler{disbursements: disbursements, logger: logger}
}

// B2C handles POST /b2c
func (h *DisbursementHandler) B2C(c *gin.Context) {
	var req dto.B2CPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.disbursements.B2C(c.Request.Context(), disbursementUseCase.B2CRequest{
		PhoneNumber: req.PhoneNumber,
		Amount:      req.Amount,
		CommandID:   req.CommandID,
		Remarks:     req.Remarks,
		Occasion:    req.Occasion,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"B2C payment initiated",
		dto.FromB2CTransaction(tx),
	))
}

// B2B handles POST /b2b
func (h *DisbursementHandler) B2B(c *gin.Context) {
	var req dto.B2BPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tx, err := h.disbursements.B2B(c.Request.Context(), disbursementUseCase.B2BRequest{
		PartyB:           req.PartyB,
		Amount:           req.Amount,
		CommandID:        req.CommandID,
		AccountReference: req.AccountReference,
		Remarks:          req.Remarks,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"B2B payment initiated",
		dto.FromB2BTransaction(tx),
	))
}

// B2CHistory handles GET /b2c-transactions
func (h *DisbursementHandler) B2CHistory(c *gin.Context) {
	txs, err := h.disbursements.B2CHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.FromB2CTransactions(txs)))
}

// B2BHistory handles GET /b2b-transactions
func (h *DisbursementHandler) B2BHistory(c *gin.Context) {
	txs, err := h.disbursements.B2BHistory(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.FromB2BTransactions(txs)))
}
