// Package app assembles the ledger sources, caches and stores selected by
// configuration. It is shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/adapter/idgen"
	"github.com/iho/lpledger/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/lpledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/lpledger/internal/adapter/repository/redis"
	"github.com/iho/lpledger/internal/adapter/source/cachedsource"
	"github.com/iho/lpledger/internal/adapter/source/httpsource"
	"github.com/iho/lpledger/internal/adapter/source/retrysource"
	"github.com/iho/lpledger/internal/infrastructure/config"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
	"github.com/iho/lpledger/internal/infrastructure/postgres"
	"github.com/iho/lpledger/internal/infrastructure/redis"
	"github.com/iho/lpledger/internal/usecase"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

// Components are the configured adapters behind the use cases.
type Components struct {
	Ledger           usecase.LedgerSource
	Transactions     usecase.TransactionSource
	IdempotencyStore usecase.IdempotencyStore
	// Checks are keyed by dependency name.
	Checks map[string]Check

	closers []func()
}

// Close releases connections in reverse order of creation.
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build creates the sources, cache and idempotency store for cfg. The
// ledger source is layered as cache, then retry, then the backend.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*Components, error) {
	c := &Components{Checks: map[string]Check{}}

	ledger, transactions, err := c.buildSource(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}

	retrier := retrysource.NewRetrier(retrysource.Config{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		MaxElapsedTime:  cfg.RetryMaxElapsed,
	}, logger, m)
	c.Ledger = retrysource.NewLedgerSource(ledger, retrier)
	c.Transactions = retrysource.NewTransactionSource(transactions, retrier)

	var redisClient *goredis.Client
	if cfg.CacheBackend == config.CacheRedis {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		c.closers = append(c.closers, func() { _ = redisClient.Close() })
		c.Checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	switch cfg.CacheBackend {
	case config.CacheRedis:
		c.Ledger = cachedsource.NewLedgerSource(c.Ledger, redisRepo.NewCache(redisClient), cfg.CacheTTL, config.CacheRedis, logger, m)
		c.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
	case config.CacheMemory:
		cache := memory.NewCache(cfg.CacheTTL, memory.DefaultCleanupInterval)
		c.Ledger = cachedsource.NewLedgerSource(c.Ledger, cache, cfg.CacheTTL, config.CacheMemory, logger, m)
		c.IdempotencyStore = memory.NewIdempotencyStore(memory.DefaultCleanupInterval)
	default:
		c.IdempotencyStore = memory.NewIdempotencyStore(memory.DefaultCleanupInterval)
	}

	logger.Info().
		Str("source", cfg.SourceBackend).
		Str("cache", cfg.CacheBackend).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("ledger sources ready")

	return c, nil
}

func (c *Components) buildSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (usecase.LedgerSource, usecase.TransactionSource, error) {
	switch cfg.SourceBackend {
	case config.SourcePostgres:
		pool, err := c.openPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return postgresRepo.NewLedgerRepository(pool),
			postgresRepo.NewTransactionRepository(pool, idgen.NewULIDGenerator()),
			nil

	default:
		client, err := httpsource.New(httpsource.Config{
			BaseURL: cfg.SourceBaseURL,
			Timeout: cfg.SourceTimeout,
			Token:   cfg.SourceToken,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
}

func (c *Components) openPostgres(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, error) {
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return nil, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	logger.Info().Msg("connected to postgres")

	c.closers = append(c.closers, pool.Close)
	c.Checks["postgres"] = pool.Ping
	return pool, nil
}
