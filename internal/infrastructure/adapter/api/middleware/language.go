package middleware

import (
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/gin-gonic/gin"
)

// Language negotiates the error message language from Accept-Language
func Language(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(response.LanguageKey, response.ParseLanguage(c.GetHeader("Accept-Language"), defaultLang))
		c.Next()
	}
}
