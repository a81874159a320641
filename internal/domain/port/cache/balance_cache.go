package cache

import (
	"context"

	"github.com/shopspring/decimal"
)

// Entry is the result of a cache lookup
type Entry struct {
	Balance decimal.Decimal
	Found   bool

	// Version is the user's invalidation generation at lookup time. Pass it
	// back to Set so that a fill racing an invalidation is dropped.
	Version int64
}

// BalanceCache is a best-effort read-through cache of user balances.
// The database stays the source of truth; callers treat cache errors as misses.
type BalanceCache interface {
	// Get returns the cached balance, if any, and the current version
	Get(ctx context.Context, userID uint64) (Entry, error)

	// Set stores a balance read after Get returned version. The write is
	// skipped when the user was invalidated in between.
	Set(ctx context.Context, userID uint64, balance decimal.Decimal, version int64) error

	// Invalidate removes the entries of the given users and bumps their versions
	Invalidate(ctx context.Context, userIDs ...uint64) error
}
