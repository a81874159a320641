package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorType represents the type of database error that occurred
type ErrorType string

const (
	DuplicateKeyError ErrorType = "duplicate_key"
	LockError         ErrorType = "lock"
	CheckError        ErrorType = "check"
	RangeError        ErrorType = "range"
	TimeoutError      ErrorType = "timeout"
	ConnectionError   ErrorType = "connection"
	ConstraintError   ErrorType = "constraint"
)

// PostgreSQL SQLSTATE codes
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateCheckViolation       = "23514"
	sqlStateForeignKeyViolation  = "23503"
	sqlStateNotNullViolation     = "23502"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
	sqlStateNumericOutOfRange    = "22003"
)

// balanceConstraint is the check constraint that keeps balances non-negative
const balanceConstraint = "chk_users_balance_non_negative"

// ErrorClassifier provides methods to classify database errors. SQLSTATE codes
// from pgconn are authoritative; message matching covers wrapped errors that
// lost their *pgconn.PgError.
type ErrorClassifier struct{}

// NewErrorClassifier creates a new ErrorClassifier
func NewErrorClassifier() *ErrorClassifier {
	return &ErrorClassifier{}
}

// Classify returns the type of error
func (c *ErrorClassifier) Classify(err error) ErrorType {
	if err == nil {
		return ""
	}

	switch {
	case c.IsDuplicateKeyError(err):
		return DuplicateKeyError
	case c.IsLockError(err):
		return LockError
	case c.IsCheckViolation(err):
		return CheckError
	case c.IsRangeError(err):
		return RangeError
	case c.IsTimeoutError(err):
		return TimeoutError
	case c.IsConnectionError(err):
		return ConnectionError
	case c.IsConstraintError(err):
		return ConstraintError
	}

	return ""
}

// ToDomainError maps a classified database error to a domain error
func (c *ErrorClassifier) ToDomainError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch c.Classify(err) {
	case DuplicateKeyError:
		return errs.ErrDuplicateUser
	case LockError:
		return fmt.Errorf("%w: %s", errs.ErrConcurrentUpdate, operation)
	case CheckError:
		if c.ConstraintName(err) == balanceConstraint || strings.Contains(err.Error(), balanceConstraint) {
			return errs.ErrInsufficientFunds
		}
		return errs.NewValidationError("amount", "violates a table constraint")
	case RangeError:
		return errs.NewValidationError("amount", "out of range")
	case TimeoutError:
		return fmt.Errorf("%w: %s operation timed out", errs.ErrDatabaseConnection, operation)
	default:
		return fmt.Errorf("%w: %s: %s", errs.ErrDatabaseConnection, operation, err.Error())
	}
}

// SQLState returns the SQLSTATE code of a PostgreSQL error, or "" when err is
// not one
func (c *ErrorClassifier) SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// ConstraintName returns the violated constraint of a PostgreSQL error
func (c *ErrorClassifier) ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// IsDuplicateKeyError checks if the error is a duplicate key error
func (c *ErrorClassifier) IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if c.SQLState(err) == sqlStateUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}

// IsLockError checks if the error is a deadlock, serialization failure or lock timeout
func (c *ErrorClassifier) IsLockError(err error) bool {
	if err == nil {
		return false
	}
	switch c.SQLState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return true
	}
	return strings.Contains(err.Error(), "deadlock") ||
		strings.Contains(err.Error(), "could not serialize access") ||
		strings.Contains(err.Error(), "lock timeout")
}

// IsCheckViolation checks if the error is a CHECK constraint violation
func (c *ErrorClassifier) IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	if c.SQLState(err) == sqlStateCheckViolation {
		return true
	}
	return strings.Contains(err.Error(), "violates check constraint")
}

// IsRangeError checks if a numeric value did not fit its column
func (c *ErrorClassifier) IsRangeError(err error) bool {
	if err == nil {
		return false
	}
	if c.SQLState(err) == sqlStateNumericOutOfRange {
		return true
	}
	return strings.Contains(err.Error(), "numeric field overflow")
}

// IsTimeoutError checks if the statement was cancelled by a deadline
func (c *ErrorClassifier) IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	return c.SQLState(err) == sqlStateQueryCanceled
}

// IsConnectionError checks if the error is related to database connectivity
func (c *ErrorClassifier) IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if strings.HasPrefix(c.SQLState(err), "08") {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "server closed") ||
		strings.Contains(msg, "dial")
}

// IsConstraintError checks if the error is related to other constraint violations
func (c *ErrorClassifier) IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	switch c.SQLState(err) {
	case sqlStateForeignKeyViolation, sqlStateNotNullViolation:
		return true
	}
	return strings.Contains(err.Error(), "violates")
}
