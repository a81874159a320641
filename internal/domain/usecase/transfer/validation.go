package transfer

import (
	"fmt"
	"unicode/utf8"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/usecase"
)

// TransferValidator provides validation for transfer requests
type TransferValidator struct{}

// NewTransferValidator creates a new TransferValidator
func NewTransferValidator() *TransferValidator {
	return &TransferValidator{}
}

// ValidateTransfer validates all transfer fields and returns the request with
// the recipient case-folded and the description defaulted
func (v *TransferValidator) ValidateTransfer(req usecase.TransferRequest) (usecase.TransferRequest, error) {
	if req.FromUserID == 0 {
		return req, errs.NewValidationError("from_user_id", "must be positive")
	}

	if err := v.validateRecipient(req.ToUsername); err != nil {
		return req, err
	}

	if err := entity.ValidateTransferAmount(req.Amount); err != nil {
		return req, err
	}

	description := entity.NormalizeDescription(req.Description)
	if err := entity.ValidateDescription(description); err != nil {
		return req, err
	}

	return usecase.TransferRequest{
		FromUserID:  req.FromUserID,
		ToUsername:  entity.NormalizeUsername(req.ToUsername),
		Amount:      req.Amount,
		Description: description,
	}, nil
}

// ValidateUserID checks a user id taken from a query
func (v *TransferValidator) ValidateUserID(userID uint64) error {
	if userID == 0 {
		return errs.NewValidationError("user_id", "must be positive")
	}
	return nil
}

// validateRecipient checks only the minimum length; an unknown but well-formed
// username is reported as RecipientNotFound later
func (v *TransferValidator) validateRecipient(username string) error {
	if utf8.RuneCountInString(username) < entity.UsernameMinLength {
		return errs.NewValidationError("to_username",
			fmt.Sprintf("must be at least %d characters", entity.UsernameMinLength))
	}
	return nil
}
