package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeValidation         = 4000
	CodeDuplicateUser      = 4001
	CodeInsufficientFunds  = 4002
	CodeSelfTransfer       = 4003
	CodeInvalidCredentials = 4010
	CodeUserNotFound       = 4040
	CodeSenderNotFound     = 4041
	CodeRecipientNotFound  = 4042
	CodeMethodNotAllowed   = 4050
	CodeConcurrentUpdate   = 4090

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrValidation is returned when request input is malformed or out of range
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUser is returned when the username is already taken
	ErrDuplicateUser = errors.New("user already exists")

	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	// Both cases share this error so callers cannot tell them apart.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrSenderNotFound is returned when the transfer sender doesn't exist
	ErrSenderNotFound = fmt.Errorf("sender: %w", ErrUserNotFound)

	// ErrRecipientNotFound is returned when the transfer recipient doesn't exist
	ErrRecipientNotFound = fmt.Errorf("recipient: %w", ErrUserNotFound)

	// ErrInsufficientFunds is returned when the sender balance is lower than the amount
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer is returned when sender and recipient resolve to the same user
	ErrSelfTransfer = errors.New("cannot transfer to yourself")

	// ErrMethodNotAllowed is returned for an unsupported method or action
	ErrMethodNotAllowed = errors.New("method not allowed")

	// ErrConcurrentUpdate is returned when the database aborted the operation
	// because of a deadlock or serialization failure
	ErrConcurrentUpdate = errors.New("concurrent update detected")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateUser
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrSelfTransfer):
		return CodeSelfTransfer
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrSenderNotFound):
		return CodeSenderNotFound
	case errors.Is(err, ErrRecipientNotFound):
		return CodeRecipientNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return CodeMethodNotAllowed
	case errors.Is(err, ErrConcurrentUpdate):
		return CodeConcurrentUpdate
	default:
		return CodeInternalServer
	}
}

// ValidationError describes which input field was rejected and why
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is reports ErrValidation as the base kind
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a field-level validation error
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientFundsError provides detailed error information for a rejected debit
type InsufficientFundsError struct {
	UserID    uint64
	Amount    string
	Available string
}

// Error implements the error interface
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %d: required %s, available %s",
		e.UserID, e.Amount, e.Available)
}

// Is checks if the target error is an ErrInsufficientFunds
func (e *InsufficientFundsError) Is(target error) bool {
	return target == ErrInsufficientFunds
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientFundsError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "insufficient_funds",
		"user_id":    e.UserID,
		"amount":     e.Amount,
		"available":  e.Available,
		"error_code": CodeInsufficientFunds,
	}
}

// NewInsufficientFundsError creates a new detailed insufficient funds error
func NewInsufficientFundsError(userID uint64, amount, available string) error {
	return &InsufficientFundsError{
		UserID:    userID,
		Amount:    amount,
		Available: available,
	}
}

// TransferError wraps a failure of the transfer operation with its inputs
type TransferError struct {
	FromUserID uint64
	ToUsername string
	Amount     string
	Stage      string
	Err        error
}

// Error implements the error interface
func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer from user %d to %q (amount: %s) failed at %s: %v",
		e.FromUserID, e.ToUsername, e.Amount, e.Stage, e.Err)
}

// Unwrap returns the underlying error
func (e *TransferError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransferError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "transfer_error",
		"from_user_id": e.FromUserID,
		"to_username":  e.ToUsername,
		"amount":       e.Amount,
		"stage":        e.Stage,
		"error":        e.Err.Error(),
		"error_code":   ErrorCode(e.Err),
	}
}

// NewTransferError creates a detailed transfer error
func NewTransferError(fromUserID uint64, toUsername, amount, stage string, err error) error {
	return &TransferError{
		FromUserID: fromUserID,
		ToUsername: toUsername,
		Amount:     amount,
		Stage:      stage,
		Err:        err,
	}
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

// IsInsufficientFundsError checks if the error is related to insufficient funds
func IsInsufficientFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds)
}

// IsConcurrentUpdateError checks if the error was caused by a lock conflict
func IsConcurrentUpdateError(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate)
}

// LogFieldsOf returns structured fields for errors that expose them,
// falling back to the error message
func LogFieldsOf(err error) map[string]any {
	var withFields interface{ LogFields() map[string]any }
	if errors.As(err, &withFields) {
		return withFields.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}
