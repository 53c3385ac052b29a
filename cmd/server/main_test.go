package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/adapter/http/middleware"
	"github.com/iho/lpledger/internal/infrastructure/config"
)

func TestNewServer(t *testing.T) {
	cfg := &config.Config{
		HTTPPort:         "9090",
		HTTPReadTimeout:  time.Second,
		HTTPWriteTimeout: 2 * time.Second,
		HTTPIdleTimeout:  3 * time.Second,
	}

	srv := newServer(cfg, http.NotFoundHandler())

	if srv.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %s", srv.Addr)
	}
	if srv.ReadTimeout != time.Second || srv.WriteTimeout != 2*time.Second || srv.IdleTimeout != 3*time.Second {
		t.Fatalf("unexpected timeouts: %+v", srv)
	}
}

func TestNewRegistry(t *testing.T) {
	families, err := newRegistry().Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	found := false
	for _, f := range families {
		if f.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected go collector metrics to be registered")
	}
}

func TestCleanupLimitersStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		cleanupLimiters(ctx, middleware.NewRateLimiter(1, 1, nil))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("cleanup loop did not stop")
	}
}

func TestRunFailsOnInvalidSource(t *testing.T) {
	cfg := &config.Config{
		SourceBackend: config.SourceHTTP,
		SourceBaseURL: "::bad",
		CacheBackend:  config.CacheNone,
	}

	if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected run to fail for an invalid source URL")
	}
}
