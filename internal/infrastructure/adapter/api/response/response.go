package response

import (
	"errors"
	"net/http"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/logger"
	"github.com/gin-gonic/gin"
)

// LanguageKey is the gin context key holding the negotiated response language
const LanguageKey = "lang"

// Language returns the response language negotiated for the request
func Language(c *gin.Context) string {
	if lang := c.GetString(LanguageKey); lang != "" {
		return lang
	}
	return LangEnglish
}

// StatusFor maps a domain error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation),
		errors.Is(err, errs.ErrDuplicateUser),
		errors.Is(err, errs.ErrInsufficientFunds),
		errors.Is(err, errs.ErrSelfTransfer):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, errs.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error writes the error body for err and aborts the handler chain.
// Server-side errors are logged; their text never reaches the client.
func Error(c *gin.Context, log coreport.Logger, err error) {
	status := StatusFor(err)

	if status >= http.StatusInternalServerError && log != nil {
		fields := errs.LogFieldsOf(err)
		fields["method"] = c.Request.Method
		fields["path"] = c.FullPath()
		log.Error("Request failed", logger.WithContextFields(c.Request.Context(), fields))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{
		Error: Message(Language(c), err),
		Code:  errs.ErrorCode(err),
	})
}

// NotFound writes the body for an unknown path
func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{
		Error: lookup(Language(c), msgNotFound),
		Code:  errs.CodeUserNotFound,
	})
}

// Unavailable writes the body for a failed dependency check
func Unavailable(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponse{
		Error: lookup(Language(c), msgUnavailable),
		Code:  errs.CodeInternalServer,
	})
}
