package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/handler"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/middleware"
)

// SetupRoutes configures all the routes for the API
func SetupRoutes(
	router *gin.Engine,
	paymentHandler *handler.PaymentHandler,
	disbursementHandler *handler.DisbursementHandler,
	queryHandler *handler.QueryHandler,
	qrCodeHandler *handler.QRCodeHandler,
	reversalHandler *handler.ReversalHandler,
	callbackHandler *handler.CallbackHandler,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	payments := router.Group("/api/payments")
	{
		// Customer-to-business
		payments.POST("/initiate", paymentHandler.Initiate)
		payments.GET("/status/:checkoutRequestId", paymentHandler.Status)
		payments.GET("/history", paymentHandler.History)

		// Disbursements
		payments.POST("/b2c", disbursementHandler.B2C)
		payments.POST("/b2b", disbursementHandler.B2B)
		payments.GET("/b2c-transactions", disbursementHandler.B2CHistory)
		payments.GET("/b2b-transactions", disbursementHandler.B2BHistory)

		// Enquiries
		payments.POST("/balance", queryHandler.Balance)
		payments.POST("/transaction-status", queryHandler.TransactionStatus)

		// QR codes
		payments.POST("/qrcode", qrCodeHandler.Generate)
		payments.GET("/qrcodes", qrCodeHandler.History)

		// Reversals
		payments.POST("/transaction-reversal", reversalHandler.Reverse)

		// Vendor callbacks
		payments.POST("/callback", callbackHandler.STKCallback)
		payments.POST("/result", callbackHandler.Result)
		payments.POST("/timeout", callbackHandler.Timeout)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, frontendOrigin string) {
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(frontendOrigin))
}
