// Package redis implements the ledger page cache and the idempotency store
// on Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/lpledger/internal/usecase"
)

// Key namespaces. Both stores may share one Redis database.
const (
	CacheKeyspace       = "lpledger:cache:"
	IdempotencyKeyspace = "lpledger:idempotency:"
)

// Cache keeps serialized ledger pages in Redis. It implements usecase.Cache.
type Cache struct {
	client redis.Cmdable
}

// NewCache creates a Cache on client.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client}
}

// Get returns the cached page for key, or usecase.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	page, err := c.client.Get(ctx, CacheKeyspace+key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return "", usecase.ErrCacheMiss
	case err != nil:
		return "", fmt.Errorf("failed to read cached page %s: %w", key, err)
	}
	return page, nil
}

// Set stores a page until ttl elapses.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, CacheKeyspace+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache page %s: %w", key, err)
	}
	return nil
}

// Delete evicts a page.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, CacheKeyspace+key).Err()
}
