package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	reversalUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/reversal"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// ReversalHandler handles transaction reversal HTTP requests
type ReversalHandler struct {
	reversals *reversalUseCase.Service
	logger    coreport.Logger
}

// NewReversalHandler creates a new reversal handler instance
func NewReversalHandler(reversals *reversalUseCase.Service, logger coreport.Logger) *ReversalHandler {
	return &ReversalHandler{reversals: reversals, logger: logger}
}

// Reverse handles POST /transaction-reversal
func (h *ReversalHandler) Reverse(c *gin.Context) {
	var req dto.ReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	record, err := h.reversals.Reverse(c.Request.Context(), reversalUseCase.Request{
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		ReceiverParty: req.ReceiverParty,
		Remarks:       req.Remarks,
		Occasion:      req.Occasion,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"Transaction reversal initiated. The outcome arrives on the result callback.",
		dto.FromReversal(record),
	))
}
