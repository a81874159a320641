package persistence

import (
	"context"
)

// UnitOfWork scopes a money movement to one database transaction.
// Transactions run at READ COMMITTED; transfers serialize on the row locks
// taken by UserRepository.LockForUpdate.
type UnitOfWork interface {
	// Begin starts a transaction and returns a context carrying it.
	// Repositories obtained from that context run inside the transaction.
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction carried by ctx.
	// A failed commit leaves the database unchanged.
	Commit(ctx context.Context) error

	// Rollback discards the transaction carried by ctx.
	// Calling it on a context without a transaction is a no-op.
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the transaction in ctx,
	// or to the connection pool when ctx carries none
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a ledger repository bound the same way
	GetTransactionRepository(ctx context.Context) TransactionRepository
}
