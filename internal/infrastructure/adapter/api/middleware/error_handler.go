package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/kmwangi/mpesa-gateway/internal/domain/error"
	coreport "github.com/kmwangi/mpesa-gateway/internal/domain/port/core"
	"github.com/kmwangi/mpesa-gateway/internal/infrastructure/adapter/api/dto"
)

// ErrorHandler middleware recovers from panics and returns a 500 envelope
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":     err,
					"path":      c.Request.URL.Path,
					"method":    c.Request.Method,
					"client_ip": c.ClientIP(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Error(
					errs.CodeInternalServer,
					"Internal server error",
				))
			}
		}()

		c.Next()
	}
}
