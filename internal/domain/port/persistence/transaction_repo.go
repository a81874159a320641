package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
)

// TransactionRepository defines the methods used to interact with the ledger
type TransactionRepository interface {
	// Create appends a ledger entry and assigns its generated ID
	//
	// Possible errors:
	// - ErrValidation: If the row violates a table constraint
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// ListByUser returns at most limit entries where the user is sender or
	// recipient, newest first, joined with both parties
	//
	// Possible errors:
	// - ErrDatabaseConnection: If database connection fails
	ListByUser(ctx context.Context, userID uint64, limit int) ([]entity.HistoryEntry, error)
}
