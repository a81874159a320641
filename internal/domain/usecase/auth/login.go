package auth

import (
	"context"
	"errors"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// Login verifies the credentials. An unknown username and a wrong password
// both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, req usecase.LoginRequest) (*entity.UserProfile, error) {
	input, err := s.validator.ValidateLogin(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			s.compareDummy(input.Password)
			return nil, errs.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(user.PasswordHash, input.Password)
	if err != nil {
		s.logger.Error("Stored password hash is unusable", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return nil, errs.ErrInvalidCredentials
	}
	if !ok {
		return nil, errs.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, input.Password)
	}

	profile := user.Profile()
	return &profile, nil
}

// rehash upgrades a legacy credential. Failures are logged and do not fail the login.
func (s *Service) rehash(ctx context.Context, user *entity.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("Failed to rehash password", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.Warn("Failed to store rehashed password", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		return
	}

	user.PasswordHash = hash
	s.logger.Info("Upgraded legacy password hash", map[string]any{
		"user_id": user.ID,
	})
}
