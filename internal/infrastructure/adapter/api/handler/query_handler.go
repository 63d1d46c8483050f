package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	queryUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/query"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// QueryHandler handles balance and transaction status enquiry requests
type QueryHandler struct {
	queries *queryUseCase.Service
	logger  coreport.Logger
}

// NewQueryHandler creates a new query handler instance
func NewQueryHandler(queries *queryUseCase.Service, logger coreport.Logger) *QueryHandler {
	return &QueryHandler{queries: queries, logger: logger}
}

// Balance handles POST /balance
func (h *QueryHandler) Balance(c *gin.Context) {
	var req dto.BalanceQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	record, err := h.queries.Balance(c.Request.Context(), queryUseCase.BalanceRequest{
		PartyA:         req.PartyA,
		IdentifierType: req.IdentifierType,
		Remarks:        req.Remarks,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"Balance query initiated. The balance arrives on the result callback.",
		dto.FromBalanceQuery(record),
	))
}

// TransactionStatus handles POST /transaction-status
func (h *QueryHandler) TransactionStatus(c *gin.Context) {
	var req dto.StatusQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	record, err := h.queries.TransactionStatus(c.Request.Context(), queryUseCase.StatusRequest{
		TransactionID:  req.TransactionID,
		PartyA:         req.PartyA,
		IdentifierType: req.IdentifierType,
		Remarks:        req.Remarks,
		Occasion:       req.Occasion,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"Transaction status query initiated. The outcome arrives on the result callback.",
		dto.FromStatusQuery(record),
	))
}
