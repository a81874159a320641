package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInsufficientFunds.Error() != "insufficient funds" {
		t.Errorf("ErrInsufficientFunds has unexpected message: %s", ErrInsufficientFunds.Error())
	}
	if ErrInvalidCredentials.Error() != "invalid username or password" {
		t.Errorf("ErrInvalidCredentials has unexpected message: %s", ErrInvalidCredentials.Error())
	}
	if ErrSenderNotFound.Error() != "sender: user not found" {
		t.Errorf("ErrSenderNotFound has unexpected message: %s", ErrSenderNotFound.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"Validation", ErrValidation, 4000},
		{"ValidationErrorType", NewValidationError("username", "too short"), 4000},
		{"DuplicateUser", ErrDuplicateUser, 4001},
		{"InsufficientFunds", ErrInsufficientFunds, 4002},
		{"InsufficientFundsErrorType", NewInsufficientFundsError(1, "10.00", "5.00"), 4002},
		{"SelfTransfer", ErrSelfTransfer, 4003},
		{"InvalidCredentials", ErrInvalidCredentials, 4010},
		{"UserNotFound", ErrUserNotFound, 4040},
		{"SenderNotFound", ErrSenderNotFound, 4041},
		{"RecipientNotFound", ErrRecipientNotFound, 4042},
		{"MethodNotAllowed", ErrMethodNotAllowed, 4050},
		{"ConcurrentUpdate", ErrConcurrentUpdate, 4090},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"DatabaseConnection", ErrDatabaseConnection, 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrSelfTransfer), 4003},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestNotFoundVariants(t *testing.T) {
	if !errors.Is(ErrSenderNotFound, ErrUserNotFound) {
		t.Errorf("ErrSenderNotFound should match ErrUserNotFound")
	}
	if !errors.Is(ErrRecipientNotFound, ErrUserNotFound) {
		t.Errorf("ErrRecipientNotFound should match ErrUserNotFound")
	}
	if errors.Is(ErrSenderNotFound, ErrRecipientNotFound) {
		t.Errorf("sender and recipient not found must stay distinct")
	}
	if !IsNotFoundError(ErrRecipientNotFound) {
		t.Errorf("IsNotFoundError(ErrRecipientNotFound) = false, want true")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("password", "must be at least 6 characters")

	if err.Error() != "password: must be at least 6 characters" {
		t.Errorf("ValidationError.Error() = %s", err.Error())
	}
	if !IsValidationError(err) {
		t.Errorf("IsValidationError(err) = false, want true")
	}

	var vErr *ValidationError
	if !errors.As(fmt.Errorf("register: %w", err), &vErr) {
		t.Fatalf("errors.As should find *ValidationError")
	}
	if vErr.Field != "password" {
		t.Errorf("Field = %s, want password", vErr.Field)
	}
}

func TestInsufficientFundsError(t *testing.T) {
	err := NewInsufficientFundsError(7, "300.00", "250.00")

	expected := "insufficient funds for user 7: required 300.00, available 250.00"
	if err.Error() != expected {
		t.Errorf("InsufficientFundsError.Error() = %s, want %s", err.Error(), expected)
	}
	if !IsInsufficientFundsError(err) {
		t.Errorf("IsInsufficientFundsError(err) = false, want true")
	}

	fields := LogFieldsOf(err)
	if fields["error_type"] != "insufficient_funds" {
		t.Errorf("error_type = %v, want insufficient_funds", fields["error_type"])
	}
	if fields["available"] != "250.00" {
		t.Errorf("available = %v, want 250.00", fields["available"])
	}
}

func TestTransferError(t *testing.T) {
	err := NewTransferError(3, "bob", "10.00", "debit", ErrConcurrentUpdate)

	expected := `transfer from user 3 to "bob" (amount: 10.00) failed at debit: concurrent update detected`
	if err.Error() != expected {
		t.Errorf("TransferError.Error() = %s, want %s", err.Error(), expected)
	}
	if !IsConcurrentUpdateError(err) {
		t.Errorf("TransferError should unwrap to ErrConcurrentUpdate")
	}

	fields := LogFieldsOf(err)
	if fields["stage"] != "debit" {
		t.Errorf("stage = %v, want debit", fields["stage"])
	}
	if fields["error_code"] != CodeConcurrentUpdate {
		t.Errorf("error_code = %v, want %d", fields["error_code"], CodeConcurrentUpdate)
	}
}

func TestLogFieldsOfPlainError(t *testing.T) {
	fields := LogFieldsOf(errors.New("boom"))
	if fields["error"] != "boom" {
		t.Errorf("error = %v, want boom", fields["error"])
	}
	if fields["error_code"] != CodeInternalServer {
		t.Errorf("error_code = %v, want %d", fields["error_code"], CodeInternalServer)
	}
}
