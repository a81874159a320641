package usecase

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceUseCase defines the read-only balance lookup
type BalanceUseCase interface {
	// GetBalance returns the current balance of the user
	GetBalance(ctx context.Context, userID uint64) (decimal.Decimal, error)
}
