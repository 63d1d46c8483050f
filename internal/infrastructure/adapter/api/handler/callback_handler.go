package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kmwangi/mpesa-gateway/internal/domain/entity"
	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	paymentUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/payment"
	"github.com/kmwangi/mpesa-gateway/internal/domain/usecase/reconcile"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// CallbackHandler handles the endpoints Daraja posts back to. Responses are
// minimal acknowledgements; a 500 tells the vendor to redeliver, a 400
// tells it the payload will never parse.
type CallbackHandler struct {
	payments   *paymentUseCase.Service
	reconciler *reconcile.Reconciler
	logger     coreport.Logger
}

// NewCallbackHandler creates a new callback handler instance
func NewCallbackHandler(
	payments *paymentUseCase.Service,
	reconciler *reconcile.Reconciler,
	logger coreport.Logger,
) *CallbackHandler {
	return &CallbackHandler{
		payments:   payments,
		reconciler: reconciler,
		logger:     logger,
	}
}

// STKCallback handles POST /callback
func (h *CallbackHandler) STKCallback(c *gin.Context) {
	var envelope dto.STKCallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.logger.Warn("Malformed STK callback", map[string]any{"error": err.Error()})
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed callback payload"})
		return
	}

	stk := envelope.Body.StkCallback
	if stk.CheckoutRequestID == "" || stk.ResultCode == nil {
		h.logger.Warn("STK callback missing required fields", map[string]any{
			"checkout_request_id": stk.CheckoutRequestID,
		})
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed callback payload"})
		return
	}

	cb := paymentUseCase.Callback{
		CheckoutRequestID: stk.CheckoutRequestID,
		ResultCode:        *stk.ResultCode,
		ResultDesc:        stk.ResultDesc,
	}
	for _, item := range stk.CallbackMetadata.Item {
		cb.Metadata = append(cb.Metadata, paymentUseCase.CallbackItem{
			Name:  item.Name,
			Value: item.Value,
		})
	}

	if err := h.payments.HandleCallback(c.Request.Context(), cb); err != nil {
		if errs.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, dto.AckResponse{Message: "No payment matches this callback"})
			return
		}
		h.logger.Error("STK callback reconciliation failed", map[string]any{
			"checkout_request_id": stk.CheckoutRequestID,
			"error":               err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.AckResponse{Message: "Callback processing failed"})
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{Message: "Callback processed"})
}

// Result handles POST /result
func (h *CallbackHandler) Result(c *gin.Context) {
	var envelope dto.ResultEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.logger.Warn("Malformed result callback", map[string]any{"error": err.Error()})
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed result payload"})
		return
	}

	res := envelope.Result
	if res.ConversationID == "" || res.ResultCode == nil {
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed result payload"})
		return
	}

	result := entity.AsyncResult{
		ConversationID:           res.ConversationID,
		OriginatorConversationID: res.OriginatorConversationID,
		ResultCode:               *res.ResultCode,
		ResultDesc:               res.ResultDesc,
	}
	for _, param := range res.ResultParameters.ResultParameter {
		result.Parameters = append(result.Parameters, entity.ResultParameter{
			Key:   param.Key,
			Value: param.Value,
		})
	}
	// Some flows report the receipt only at the top level of the envelope.
	if res.TransactionID != "" {
		if _, ok := result.Parameter(entity.ParamTransactionID); !ok {
			result.Parameters = append(result.Parameters, entity.ResultParameter{
				Key:   entity.ParamTransactionID,
				Value: res.TransactionID,
			})
		}
	}

	if err := h.reconciler.HandleResult(c.Request.Context(), result); err != nil {
		h.logger.Error("Result reconciliation failed", map[string]any{
			"conversation_id": res.ConversationID,
			"error":           err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.AckResponse{Message: "Result processing failed"})
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{Message: "Result received"})
}

// Timeout handles POST /timeout
func (h *CallbackHandler) Timeout(c *gin.Context) {
	var payload dto.TimeoutPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("Malformed timeout callback", map[string]any{"error": err.Error()})
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed timeout payload"})
		return
	}

	conversationID, resultCode, resultDesc := payload.Normalize()
	if conversationID == "" {
		c.JSON(http.StatusBadRequest, dto.AckResponse{Message: "Malformed timeout payload"})
		return
	}

	if err := h.reconciler.HandleTimeout(c.Request.Context(), conversationID, resultCode, resultDesc); err != nil {
		h.logger.Error("Timeout reconciliation failed", map[string]any{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.AckResponse{Message: "Timeout processing failed"})
		return
	}

	c.JSON(http.StatusOK, dto.AckResponse{Message: "Timeout received"})
}
