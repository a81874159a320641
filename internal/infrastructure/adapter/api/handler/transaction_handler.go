package handler

import (
	"net/http"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles transfers and transfer history
type TransactionHandler struct {
	transferUseCase usecase.TransferUseCase
	logger          coreport.Logger
}

// NewTransactionHandler creates a new transaction handler instance
func NewTransactionHandler(transferUseCase usecase.TransferUseCase, logger coreport.Logger) *TransactionHandler {
	return &TransactionHandler{
		transferUseCase: transferUseCase,
		logger:          logger,
	}
}

// Transfer handles POST /transactions
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, h.logger, bindError(err, "body"))
		return
	}

	result, err := h.transferUseCase.Transfer(c.Request.Context(), usecase.TransferRequest{
		FromUserID:  req.FromUserID,
		ToUsername:  req.ToUsername,
		Amount:      req.Amount,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.TransferResponse{
		Success:       true,
		TransactionID: result.TransactionID,
		NewBalance:    dto.Money(result.NewBalance),
	})
}

// ListHistory handles GET /transactions?user_id=
func (h *TransactionHandler) ListHistory(c *gin.Context) {
	var q dto.UserQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, h.logger, bindError(err, "user_id"))
		return
	}

	entries, err := h.transferUseCase.ListHistory(c.Request.Context(), q.UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewHistoryResponse(entries))
}
