package usecase

import (
	"context"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// TransferRequest represents a request to move funds to another user
type TransferRequest struct {
	FromUserID  uint64
	ToUsername  string
	Amount      decimal.Decimal
	Description string
}

// TransferResult contains info about a committed transfer
type TransferResult struct {
	TransactionID uint64
	NewBalance    decimal.Decimal
}

// TransferUseCase defines the funds transfer and history operations
type TransferUseCase interface {
	// Transfer atomically debits the sender, credits the recipient and
	// records a ledger entry
	Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error)

	// ListHistory returns the most recent ledger entries involving the user
	ListHistory(ctx context.Context, userID uint64) ([]entity.HistoryEntry, error)
}
