package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles POST /auth
type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	logger      coreport.Logger
}

// NewAuthHandler creates a new auth handler instance
func NewAuthHandler(authUseCase usecase.AuthUseCase, logger coreport.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// Authenticate dispatches on the action field: register or login (default).
// Any other action is answered with 405.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req dto.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if isActionError(err) {
			response.Error(c, h.logger, errs.ErrMethodNotAllowed)
			return
		}
		response.Error(c, h.logger, bindError(err, "body"))
		return
	}

	var (
		profile *entity.UserProfile
		err     error
	)
	switch req.Action {
	case dto.ActionRegister:
		profile, err = h.authUseCase.Register(c.Request.Context(), usecase.RegisterRequest{
			Username: req.Username,
			Password: req.Password,
			FullName: req.FullName,
		})
	default:
		profile, err = h.authUseCase.Login(c.Request.Context(), usecase.LoginRequest{
			Username: req.Username,
			Password: req.Password,
		})
	}
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAuthResponse(profile))
}
