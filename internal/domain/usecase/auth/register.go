package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// Register creates a new account credited with the starting balance
func (s *Service) Register(ctx context.Context, req usecase.RegisterRequest) (*entity.UserProfile, error) {
	input, err := s.validator.ValidateRegister(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	// The unique index catches concurrent registrations that pass this check
	_, err = s.userRepo.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		return nil, errs.ErrDuplicateUser
	case !errors.Is(err, errs.ErrUserNotFound):
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := entity.NewUser(input.Username, hash, input.FullName, s.timeProvider)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if !errors.Is(err, errs.ErrDuplicateUser) {
			s.logger.Error("Failed to create user", map[string]any{
				"username": input.Username,
				"error":    err.Error(),
			})
		}
		return nil, err
	}

	s.logger.Info("User registered", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})

	profile := user.Profile()
	return &profile, nil
}
