package cache

import (
	"context"

	cacheport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/cache"
	"github.com/shopspring/decimal"
)

// NoopBalanceCache is used when caching is disabled; every Get is a miss
type NoopBalanceCache struct{}

// NewNoopBalanceCache creates a disabled cache
func NewNoopBalanceCache() cacheport.BalanceCache {
	return NoopBalanceCache{}
}

func (NoopBalanceCache) Get(context.Context, uint64) (cacheport.Entry, error) {
	return cacheport.Entry{}, nil
}

func (NoopBalanceCache) Set(context.Context, uint64, decimal.Decimal, int64) error {
	return nil
}

func (NoopBalanceCache) Invalidate(context.Context, ...uint64) error {
	return nil
}
