package config_test

import (
	"testing"
	"time"

	"github.com/iho/lpledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SOURCE_TOKEN", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.SourceBackend != config.SourceHTTP {
		t.Fatalf("expected http source backend, got %s", cfg.SourceBackend)
	}

	if cfg.SourceBaseURL == "" {
		t.Fatalf("expected default source URL to be set")
	}

	if cfg.CacheBackend != config.CacheMemory || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache defaults: %s %s", cfg.CacheBackend, cfg.CacheTTL)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.DefaultPageSize != 10 {
		t.Fatalf("expected default page size 10, got %d", cfg.DefaultPageSize)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOURCE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DATABASE_TIMEOUT", "45s")
	t.Setenv("RETRY_MAX_RETRIES", "5")
	t.Setenv("RATE_LIMIT_RPS", "2.5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.SourceBackend != config.SourcePostgres || cfg.DatabaseURL != "postgres://example" {
		t.Fatalf("expected postgres source, got %s %s", cfg.SourceBackend, cfg.DatabaseURL)
	}

	if cfg.RedisURL != "redis://example" || cfg.CacheBackend != config.CacheRedis {
		t.Fatalf("expected redis cache, got %s %s", cfg.CacheBackend, cfg.RedisURL)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.DatabaseTimeout != 45*time.Second {
		t.Fatalf("expected database timeout override, got %s", cfg.DatabaseTimeout)
	}

	if cfg.RetryMaxRetries != 5 || cfg.RateLimitRPS != 2.5 {
		t.Fatalf("unexpected retry/rate overrides: %d %v", cfg.RetryMaxRetries, cfg.RateLimitRPS)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	tests := map[string]string{
		"SOURCE_BACKEND": "ftp",
		"CACHE_BACKEND":  "memcached",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			if _, err := config.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, value)
			}
		})
	}
}

func TestLoadInvalidPageSize(t *testing.T) {
	t.Setenv("DEFAULT_PAGE_SIZE", "0")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for zero page size")
	}
}
