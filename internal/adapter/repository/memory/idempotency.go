package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// ProcessingMarker is stored while the first request for a key is in flight.
const ProcessingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore with go-cache.
type IdempotencyStore struct {
	items *cache.Cache
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(cleanupInterval time.Duration) *IdempotencyStore {
	return &IdempotencyStore{items: cache.New(cache.NoExpiration, cleanupInterval)}
}

// CheckAndSet atomically claims key. When the key is already claimed it
// returns true and the stored value.
func (s *IdempotencyStore) CheckAndSet(_ context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	value := []byte(ProcessingMarker)
	if response != nil {
		value = append([]byte(nil), response...)
	}

	if err := s.items.Add(key, value, ttl); err == nil {
		return false, nil, nil
	}

	existing, ok := s.items.Get(key)
	if !ok {
		return true, []byte(ProcessingMarker), nil
	}
	return true, append([]byte(nil), existing.([]byte)...), nil
}

// Update stores the final response for key.
func (s *IdempotencyStore) Update(_ context.Context, key string, response []byte, ttl time.Duration) error {
	s.items.Set(key, append([]byte(nil), response...), ttl)
	return nil
}

// Release drops the claim on key.
func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}
