// Package memory implements the ledger page cache and the idempotency store
// in process, for single-instance deployments without Redis.
package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/iho/lpledger/internal/usecase"
)

// DefaultCleanupInterval is how often expired items are purged.
const DefaultCleanupInterval = 5 * time.Minute

// Cache implements usecase.Cache with go-cache.
type Cache struct {
	items *cache.Cache
}

// NewCache creates a new Cache. Items without a TTL expire after
// defaultTTL.
func NewCache(defaultTTL, cleanupInterval time.Duration) *Cache {
	return &Cache{items: cache.New(defaultTTL, cleanupInterval)}
}

// Get retrieves a value by key. A missing or expired key yields
// usecase.ErrCacheMiss.
func (c *Cache) Get(_ context.Context, key string) (string, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return "", usecase.ErrCacheMiss
	}
	s, ok := v.(string)
	if !ok {
		return "", usecase.ErrCacheMiss
	}
	return s, nil
}

// Set stores a value with TTL. A zero TTL uses the cache default.
func (c *Cache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = cache.DefaultExpiration
	}
	c.items.Set(key, value, ttl)
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// Len returns the number of cached items, including expired items not yet
// purged.
func (c *Cache) Len() int {
	return c.items.ItemCount()
}
