package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	cacheport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/cache"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultKeyPrefix namespaces balance keys
const DefaultKeyPrefix = "wallet:balance:"

// versionTTL bounds how long an idle user's version key is kept. It must
// outlive any read that is still waiting to fill the cache.
const versionTTL = 24 * time.Hour

// errStaleFill aborts a fill whose version no longer matches
var errStaleFill = errors.New("balance invalidated since lookup")

// RedisBalanceCache stores balances as fixed two-decimal strings with a TTL.
// Each user also has a version key, bumped on every invalidation; fills are
// check-and-set against it so a balance read before a transfer committed is
// never written after the transfer's invalidation.
type RedisBalanceCache struct {
	client    redis.UniversalClient
	ttl       time.Duration
	keyPrefix string
}

// NewRedisBalanceCache creates a balance cache over a Redis client.
// A zero ttl stores keys without expiry.
func NewRedisBalanceCache(client redis.UniversalClient, ttl time.Duration, keyPrefix string) cacheport.BalanceCache {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisBalanceCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisBalanceCache) key(userID uint64) string {
	return c.keyPrefix + strconv.FormatUint(userID, 10)
}

func (c *RedisBalanceCache) versionKey(userID uint64) string {
	return c.keyPrefix + "v:" + strconv.FormatUint(userID, 10)
}

// Get reads the balance and the version in one round trip. A missing
// balance is a miss; a missing version is version 0.
func (c *RedisBalanceCache) Get(ctx context.Context, userID uint64) (cacheport.Entry, error) {
	values, err := c.client.MGet(ctx, c.key(userID), c.versionKey(userID)).Result()
	if err != nil {
		return cacheport.Entry{}, fmt.Errorf("redis mget: %w", err)
	}

	var entry cacheport.Entry
	if raw, ok := values[1].(string); ok {
		entry.Version, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cacheport.Entry{}, fmt.Errorf("redis get: malformed version %q: %w", raw, err)
		}
	}

	raw, ok := values[0].(string)
	if !ok {
		return entry, nil
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		// Corrupt entry; drop it so the next read repopulates
		_ = c.client.Del(ctx, c.key(userID)).Err()
		return cacheport.Entry{}, fmt.Errorf("redis get: malformed balance %q: %w", raw, err)
	}

	entry.Balance = balance
	entry.Found = true
	return entry, nil
}

// Set stores the balance unless the user's version moved past version
func (c *RedisBalanceCache) Set(ctx context.Context, userID uint64, balance decimal.Decimal, version int64) error {
	versionKey := c.versionKey(userID)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return errStaleFill
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, c.key(userID), entity.FormatMoney(balance), c.ttl)
			return nil
		})
		return err
	}, versionKey)

	switch {
	case err == nil, errors.Is(err, errStaleFill), errors.Is(err, redis.TxFailedErr):
		return nil
	default:
		return fmt.Errorf("redis set: %w", err)
	}
}

// Invalidate bumps the versions and removes the cached balances of the
// given users in one transaction
func (c *RedisBalanceCache) Invalidate(ctx context.Context, userIDs ...uint64) error {
	if len(userIDs) == 0 {
		return nil
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range userIDs {
			pipe.Incr(ctx, c.versionKey(id))
			pipe.Expire(ctx, c.versionKey(id), versionTTL)
			pipe.Del(ctx, c.key(id))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}
