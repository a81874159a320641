package usecase

import (
	"context"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
)

// RegisterRequest carries the fields needed to create an account
type RegisterRequest struct {
	Username string
	Password string
	FullName string
}

// LoginRequest carries the credentials to authenticate
type LoginRequest struct {
	Username string
	Password string
}

// AuthUseCase defines registration and login
type AuthUseCase interface {
	// Register creates a new user with the starting balance
	Register(ctx context.Context, req RegisterRequest) (*entity.UserProfile, error)

	// Login verifies credentials and returns the user's public fields
	Login(ctx context.Context, req LoginRequest) (*entity.UserProfile, error)
}
