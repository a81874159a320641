package auth

import (
	"context"
	"sync"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// dummyPassword is hashed once and compared against for unknown usernames
// so that a failed login costs the same whether or not the user exists
const dummyPassword = "wallet-service-dummy-password"

// Service implements registration and login
type Service struct {
	userRepo     persistence.UserRepository
	hasher       coreport.PasswordHasher
	validator    *CredentialValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
	opTimeout    coreport.Duration

	dummyHashOnce sync.Once
	dummyHash     string
}

// NewAuthService creates a new auth service. A zero opTimeout leaves the
// caller's deadline untouched.
func NewAuthService(
	userRepo persistence.UserRepository,
	hasher coreport.PasswordHasher,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
	opTimeout coreport.Duration,
) usecase.AuthUseCase {
	return &Service{
		userRepo:     userRepo,
		hasher:       hasher,
		validator:    NewCredentialValidator(),
		timeProvider: timeProvider,
		logger:       logger,
		opTimeout:    opTimeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opTimeout <= 0 {
		return ctx, func() {}
	}
	return s.timeProvider.WithTimeout(ctx, s.opTimeout)
}

// compareDummy burns one hash comparison for a login against an unknown user
func (s *Service) compareDummy(password string) {
	s.dummyHashOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.logger.Warn("Failed to prepare dummy password hash", map[string]any{
				"error": err.Error(),
			})
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(s.dummyHash, password)
}
