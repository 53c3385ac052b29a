// Package retrysource wraps ledger and transaction sources with exponential
// backoff on transient failures.
package retrysource

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
)

// Config is the retry policy.
type Config struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultConfig returns the default retry policy.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// Retrier retries operations failing with domain.ErrSourceUnavailable.
// Any other error is returned after the first attempt.
type Retrier struct {
	cfg     Config
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRetrier creates a new Retrier.
func NewRetrier(cfg Config, logger zerolog.Logger, metrics *metrics.Metrics) *Retrier {
	return &Retrier{cfg: cfg, logger: logger, metrics: metrics}
}

// Retry executes fn with exponential backoff.
func (r *Retrier) Retry(ctx context.Context, operation string, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	retryCount := 0

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}

		if !isRetryableError(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		retryCount++
		if retryCount > r.cfg.MaxRetries {
			return backoff.Permanent(err)
		}

		if r.metrics != nil {
			r.metrics.SourceRetries.WithLabelValues(operation).Inc()
		}
		r.logger.Warn().
			Err(err).
			Str("operation", operation).
			Int("retry", retryCount).
			Msg("source unavailable, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

func isRetryableError(err error) bool {
	return errors.Is(err, domain.ErrSourceUnavailable)
}
