package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler middleware recovers from panics and returns a generic 500
func ErrorHandler(log coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("Panic recovered in API request", logger.WithContextFields(c.Request.Context(), map[string]any{
					"error":      fmt.Sprint(rec),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"user_agent": c.Request.UserAgent(),
					"stack":      string(debug.Stack()),
				}))

				if c.Writer.Written() {
					c.Abort()
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error: response.Message(response.Language(c), errs.ErrInternalServer),
					Code:  errs.CodeInternalServer,
				})
			}
		}()

		c.Next()
	}
}

// NotFound answers requests for unknown paths
func NotFound() gin.HandlerFunc {
	return response.NotFound
}

// MethodNotAllowed answers requests for a known path with an unsupported method
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, dto.ErrorResponse{
			Error: response.Message(response.Language(c), errs.ErrMethodNotAllowed),
			Code:  errs.CodeMethodNotAllowed,
		})
	}
}
