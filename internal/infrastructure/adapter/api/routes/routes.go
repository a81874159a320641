package routes

import (
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the HTTP handlers mounted by SetupRoutes
type Handlers struct {
	Auth        *handler.AuthHandler
	Balance     *handler.BalanceHandler
	Transaction *handler.TransactionHandler
	Health      *handler.HealthHandler
}

// MiddlewareOptions configures the global middlewares
type MiddlewareOptions struct {
	AllowOrigin     string
	DefaultLanguage string
}

// NewRouter creates a gin engine with middlewares and routes installed
func NewRouter(h Handlers, logger coreport.Logger, opts MiddlewareOptions) *gin.Engine {
	router := gin.New()
	SetupMiddlewares(router, logger, opts)
	SetupRoutes(router, h)
	return router
}

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, h Handlers) {
	handler.RegisterFieldNames()

	router.HandleMethodNotAllowed = true
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed())

	// POST /auth {action: register|login}
	router.POST("/auth", h.Auth.Authenticate)

	// GET /balance?user_id=
	router.GET("/balance", h.Balance.GetBalance)

	// GET /transactions?user_id= and POST /transactions
	router.GET("/transactions", h.Transaction.ListHistory)
	router.POST("/transactions", h.Transaction.Transfer)

	if h.Health != nil {
		router.GET("/health", h.Health.Check)
	}
}

// SetupMiddlewares configures global middlewares for the API.
// They also wrap the 404 and 405 handlers.
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, opts MiddlewareOptions) {
	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(opts.AllowOrigin))
	router.Use(middleware.Language(opts.DefaultLanguage))
}
