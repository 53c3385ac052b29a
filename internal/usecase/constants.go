package usecase

import "time"

const (
	// FetchPageSize is the page size used when collecting every source page
	// of an account.
	FetchPageSize = 500

	// MaxFetchPages bounds a full fetch so a misbehaving source cannot make it
	// loop forever.
	MaxFetchPages = 1000

	// DefaultSourceTimeout bounds a single fetch when the caller set no deadline.
	DefaultSourceTimeout = 30 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)
