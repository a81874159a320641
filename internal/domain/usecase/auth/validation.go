package auth

import (
	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// CredentialValidator validates and normalizes register and login input
type CredentialValidator struct{}

// NewCredentialValidator creates a new CredentialValidator
func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{}
}

// ValidateRegister checks the registration fields and returns them normalized
func (v *CredentialValidator) ValidateRegister(req usecase.RegisterRequest) (usecase.RegisterRequest, error) {
	if err := entity.ValidateUsername(req.Username); err != nil {
		return req, err
	}
	if err := entity.ValidatePassword(req.Password); err != nil {
		return req, err
	}

	fullName := entity.NormalizeFullName(req.FullName)
	if err := entity.ValidateFullName(fullName); err != nil {
		return req, err
	}

	return usecase.RegisterRequest{
		Username: entity.NormalizeUsername(req.Username),
		Password: req.Password,
		FullName: fullName,
	}, nil
}

// ValidateLogin checks the login fields and returns them normalized
func (v *CredentialValidator) ValidateLogin(req usecase.LoginRequest) (usecase.LoginRequest, error) {
	if err := entity.ValidateLoginUsername(req.Username); err != nil {
		return req, err
	}
	if err := entity.ValidateLoginPassword(req.Password); err != nil {
		return req, err
	}

	return usecase.LoginRequest{
		Username: entity.NormalizeUsername(req.Username),
		Password: req.Password,
	}, nil
}
