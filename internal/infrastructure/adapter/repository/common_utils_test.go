package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier(t *testing.T) {
	c := NewErrorClassifier()

	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		wantError error
	}{
		{
			name:      "unique violation",
			err:       &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_username"},
			wantType:  DuplicateKeyError,
			wantError: errs.ErrDuplicateUser,
		},
		{
			name:      "deadlock",
			err:       &pgconn.PgError{Code: "40P01"},
			wantType:  LockError,
			wantError: errs.ErrConcurrentUpdate,
		},
		{
			name:      "serialization failure",
			err:       fmt.Errorf("exec: %w", &pgconn.PgError{Code: "40001"}),
			wantType:  LockError,
			wantError: errs.ErrConcurrentUpdate,
		},
		{
			name:      "balance check",
			err:       &pgconn.PgError{Code: "23514", ConstraintName: "chk_users_balance_non_negative"},
			wantType:  CheckError,
			wantError: errs.ErrInsufficientFunds,
		},
		{
			name:      "other check",
			err:       &pgconn.PgError{Code: "23514", ConstraintName: "chk_transactions_amount_positive"},
			wantType:  CheckError,
			wantError: errs.ErrValidation,
		},
		{
			name:      "numeric overflow",
			err:       &pgconn.PgError{Code: "22003"},
			wantType:  RangeError,
			wantError: errs.ErrValidation,
		},
		{
			name:      "deadline",
			err:       fmt.Errorf("query: %w", context.DeadlineExceeded),
			wantType:  TimeoutError,
			wantError: errs.ErrDatabaseConnection,
		},
		{
			name:      "connection refused message",
			err:       errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantType:  ConnectionError,
			wantError: errs.ErrDatabaseConnection,
		},
		{
			name:      "duplicate message fallback",
			err:       errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_username"`),
			wantType:  DuplicateKeyError,
			wantError: errs.ErrDuplicateUser,
		},
		{
			name:      "unknown",
			err:       errors.New("something odd"),
			wantType:  "",
			wantError: errs.ErrDatabaseConnection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, c.Classify(tt.err))
			assert.ErrorIs(t, c.ToDomainError(tt.err, "test"), tt.wantError)
		})
	}

	assert.Nil(t, c.ToDomainError(nil, "noop"))
	assert.Equal(t, ErrorType(""), c.Classify(nil))
}
