package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	qrcodeUseCase "github.com/kmwangi/mpesa-gateway/internal/domain/usecase/qrcode"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// QRCodeHandler handles QR code generation HTTP requests
type QRCodeHandler struct {
	qrCodes *qrcodeUseCase.Service
	logger  coreport.Logger
}

// NewQRCodeHandler creates a new QR code handler instance
func NewQRCodeHandler(qrCodes *qrcodeUseCase.Service, logger coreport.Logger) *QRCodeHandler {
	return &QRCodeHandler{qrCodes: qrCodes, logger: logger}
}

// Generate handles POST /qrcode
func (h *QRCodeHandler) Generate(c *gin.Context) {
	var req dto.GenerateQRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.qrCodes.Generate(c.Request.Context(), qrcodeUseCase.GenerateRequest{
		MerchantName: req.MerchantName,
		RefNo:        req.RefNo,
		Amount:       req.Amount,
		TrxCode:      req.TrxCode,
		CPI:          req.CPI,
		Size:         req.Size,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OKWithMessage(
		"QR code generated",
		dto.FromQRCode(result.QRCode),
	))
}

// History handles GET /qrcodes
func (h *QRCodeHandler) History(c *gin.Context) {
	qrs, err := h.qrCodes.History(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.FromQRCodes(qrs)))
}
