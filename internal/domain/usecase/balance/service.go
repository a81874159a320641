package balance

import (
	"context"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	cacheport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
	"github.com/shopspring/decimal"
)

// Service implements the read-only balance lookup
type Service struct {
	userRepo     persistence.UserRepository
	cache        cacheport.BalanceCache
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	opTimeout    coreport.Duration
}

// NewBalanceService creates a new balance service
func NewBalanceService(
	userRepo persistence.UserRepository,
	cache cacheport.BalanceCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	opTimeout coreport.Duration,
) usecase.BalanceUseCase {
	return &Service{
		userRepo:     userRepo,
		cache:        cache,
		timeProvider: timeProvider,
		logger:       logger,
		opTimeout:    opTimeout,
	}
}

// GetBalance returns the user's balance, serving it from the cache when present
func (s *Service) GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, errs.NewValidationError("user_id", "must be positive")
	}

	if s.opTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = s.timeProvider.WithTimeout(ctx, s.opTimeout)
		defer cancel()
	}

	entry, err := s.cache.Get(ctx, userID)
	fill := err == nil
	if err != nil {
		s.logger.Warn("Balance cache read failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	} else if entry.Found {
		s.logger.Debug("Balance served from cache", map[string]any{
			"user_id": userID,
		})
		return entry.Balance, nil
	}

	balance, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		if !errs.IsNotFoundError(err) {
			s.logger.Error("Failed to get balance", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
		return decimal.Zero, err
	}

	// A failed lookup has no version to fill against
	if fill {
		if err := s.cache.Set(ctx, userID, balance, entry.Version); err != nil {
			s.logger.Warn("Balance cache write failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}

	return balance, nil
}
