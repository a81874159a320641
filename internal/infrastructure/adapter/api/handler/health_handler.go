package handler

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// DatabaseChecker is satisfied by the database manager
type DatabaseChecker interface {
	Ping(ctx context.Context) error
	PoolStats() database.ConnectionPoolMetrics
}

// HealthHandler reports whether the service can reach its database
type HealthHandler struct {
	db     DatabaseChecker
	logger coreport.Logger
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db DatabaseChecker, logger coreport.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Health check failed", map[string]any{"error": err.Error()})
		response.Unavailable(c)
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:   "ok",
		Database: h.db.PoolStats(),
	})
}
