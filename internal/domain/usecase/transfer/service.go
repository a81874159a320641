package transfer

import (
	"context"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	cacheport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/cache"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// Options tunes the transfer service
type Options struct {
	// OperationTimeout bounds each call; zero keeps the caller's deadline
	OperationTimeout coreport.Duration

	// HistoryLimit caps ListHistory results; zero means entity.HistoryLimit
	HistoryLimit int
}

// Service executes transfers inside a unit of work and lists history
type Service struct {
	uow          persistence.UnitOfWork
	cache        cacheport.BalanceCache
	validator    *TransferValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	opts         Options
}

// NewTransferService creates a new transfer service
func NewTransferService(
	uow persistence.UnitOfWork,
	cache cacheport.BalanceCache,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	opts Options,
) usecase.TransferUseCase {
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = entity.HistoryLimit
	}

	return &Service{
		uow:          uow,
		cache:        cache,
		validator:    NewTransferValidator(),
		timeProvider: timeProvider,
		logger:       logger,
		opts:         opts,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.OperationTimeout <= 0 {
		return ctx, func() {}
	}
	return s.timeProvider.WithTimeout(ctx, s.opts.OperationTimeout)
}

// ListHistory returns the most recent ledger entries where the user is sender
// or recipient, newest first
func (s *Service) ListHistory(ctx context.Context, userID uint64) ([]entity.HistoryEntry, error) {
	if err := s.validator.ValidateUserID(userID); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	entries, err := s.uow.GetTransactionRepository(ctx).ListByUser(ctx, userID, s.opts.HistoryLimit)
	if err != nil {
		s.logger.Error("Failed to list transaction history", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	return entries, nil
}
