package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/gin-gonic/gin"
)

// BalanceHandler handles balance queries
type BalanceHandler struct {
	balanceUseCase usecase.BalanceUseCase
	logger         coreport.Logger
}

// NewBalanceHandler creates a new balance handler instance
func NewBalanceHandler(balanceUseCase usecase.BalanceUseCase, logger coreport.Logger) *BalanceHandler {
	return &BalanceHandler{
		balanceUseCase: balanceUseCase,
		logger:         logger,
	}
}

// GetBalance handles GET /balance?user_id=
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.logger, bindError(err, "user_id"))
		return
	}

	balance, err := h.balanceUseCase.GetBalance(c.Request.Context(), q.UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: dto.Money(balance)})
}
