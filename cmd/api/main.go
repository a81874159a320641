package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cacheport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	authUseCase "github.com/amirhossein-jamali/wallet-service/internal/domain/usecase/auth"
	balanceUseCase "github.com/amirhossein-jamali/wallet-service/internal/domain/usecase/balance"
	transferUseCase "github.com/amirhossein-jamali/wallet-service/internal/domain/usecase/transfer"

	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	if err := run(cfg, appLogger); err != nil {
		appLogger.Error("Service stopped with error", map[string]any{
			"error": err.Error(),
		})
		_ = appLogger.Flush()
		os.Exit(1)
	}
}

func run(cfg *config.Config, appLogger coreport.Logger) error {
	tp := timeProvider.NewRealTimeProvider()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	defer cancelStartup()

	// Connect to the database
	dbManager := database.NewManager(database.NewConfig(cfg.Database), appLogger, tp)
	if _, err := dbManager.Connect(startupCtx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			appLogger.Warn("Failed to close database", map[string]any{"error": err.Error()})
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := dbManager.Migrate(startupCtx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}

	balanceCache, closeCache := newBalanceCache(startupCtx, cfg.Cache, appLogger)
	defer closeCache()

	// Repositories and unit of work
	userRepo := repository.NewUserRepository(dbManager.DB(), tp, appLogger)
	uow := dbManager.CreateUnitOfWork()
	hasher := security.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.LegacySHA256)

	// Use cases
	opTimeout := coreport.Duration(cfg.Database.QueryTimeout)
	authService := authUseCase.NewAuthService(userRepo, hasher, tp, appLogger, opTimeout)
	balanceService := balanceUseCase.NewBalanceService(userRepo, balanceCache, tp, appLogger, opTimeout)
	transferService := transferUseCase.NewTransferService(uow, balanceCache, tp, appLogger, transferUseCase.Options{
		OperationTimeout: opTimeout,
		HistoryLimit:     cfg.Transfer.HistoryLimit,
	})

	router := routes.NewRouter(routes.Handlers{
		Auth:        handler.NewAuthHandler(authService, appLogger),
		Balance:     handler.NewBalanceHandler(balanceService, appLogger),
		Transaction: handler.NewTransactionHandler(transferService, appLogger),
		Health:      handler.NewHealthHandler(dbManager, appLogger),
	}, appLogger, routes.MiddlewareOptions{
		AllowOrigin:     cfg.Server.AllowOrigin,
		DefaultLanguage: cfg.Server.DefaultLanguage,
	})

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr": server.Addr,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case sig := <-quit:
		appLogger.Info("Shutting down server...", map[string]any{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
	return nil
}

// newBalanceCache returns the Redis cache when enabled and reachable. An
// unreachable Redis degrades to no caching instead of failing startup.
func newBalanceCache(ctx context.Context, cfg config.CacheConfig, appLogger coreport.Logger) (cacheport.BalanceCache, func()) {
	if !cfg.Enabled {
		return cache.NewNoopBalanceCache(), func() {}
	}

	client, err := cache.NewRedisClient(ctx, cache.ClientConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		appLogger.Warn("Balance cache disabled, Redis unreachable", map[string]any{
			"addr":  cfg.Addr,
			"error": err.Error(),
		})
		return cache.NewNoopBalanceCache(), func() {}
	}

	appLogger.Info("Balance cache enabled", map[string]any{
		"addr": cfg.Addr,
		"ttl":  cfg.TTL.String(),
	})
	return cache.NewRedisBalanceCache(client, cfg.TTL, cfg.KeyPrefix), closeRedis(client, appLogger)
}

func closeRedis(client *redis.Client, appLogger coreport.Logger) func() {
	return func() {
		if err := client.Close(); err != nil {
			appLogger.Warn("Failed to close Redis client", map[string]any{"error": err.Error()})
		}
	}
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port <= 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Either a URL or the discrete connection fields
	if cfg.Database.URL == "" {
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or WS_DATABASE_URL / DATABASE_URL)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or WS_DATABASE_URL / DATABASE_URL)")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database")
		}
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		missingConfigs = append(missingConfigs, "cache.addr")
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if cfg.Database.URL == "" && sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be 'require', 'verify-ca' or 'verify-full' in production")
		}
		if cfg.Auth.BcryptCost < 10 {
			warnings = append(warnings, "auth.bcryptCost is too low for production")
		}
		if cfg.Server.AllowOrigin == "*" {
			warnings = append(warnings, "server.allowOrigin accepts any origin")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
