package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/logger"
	coremocks "github.com/amirhossein-jamali/wallet-service/mocks/port/core"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var seen string
	r := newEngine(RequestID())
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	t.Run("client id kept", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-1")

		w := serve(r, req)

		assert.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-1", seen)
	})

	t.Run("generated when missing", func(t *testing.T) {
		w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
		assert.Equal(t, w.Header().Get(RequestIDHeader), seen)
	})

	t.Run("oversized id replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))

		w := serve(r, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "info"},
		{http.StatusNotFound, "warn"},
		{http.StatusInternalServerError, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log := coremocks.NewMockLogger(t)
			hasStatus := mock.MatchedBy(func(f map[string]any) bool {
				return f["status"] == tt.status && f["path"] == "/x" && f["request_id"] == "rid"
			})
			switch tt.level {
			case "info":
				log.EXPECT().Info("Request processed", hasStatus).Once()
			case "warn":
				log.EXPECT().Warn("Request processed", hasStatus).Once()
			default:
				log.EXPECT().Error("Request processed", hasStatus).Once()
			}

			r := newEngine(RequestID(), Logger(log))
			r.GET("/x", func(c *gin.Context) { c.Status(tt.status) })
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set(RequestIDHeader, "rid")

			serve(r, req)
		})
	}
}

func TestErrorHandlerRecovers(t *testing.T) {
	log := coremocks.NewMockLogger(t)
	log.EXPECT().Error("Panic recovered in API request", mock.MatchedBy(func(f map[string]any) bool {
		return f["error"] == "kaboom" && f["stack"] != ""
	})).Once()

	r := newEngine(Language("ru"), ErrorHandler(log))
	r.GET("/", func(*gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Внутренняя ошибка сервера","code":5000}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	r := newEngine(CORS("https://app.example"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))

	r.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	w = serve(r, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, corsAllowMethods, w.Header().Get("Access-Control-Allow-Methods"))
}
