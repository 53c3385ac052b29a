package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/lpledger/internal/adapter/http"
	"github.com/iho/lpledger/internal/adapter/http/handler"
	"github.com/iho/lpledger/internal/adapter/http/middleware"
	"github.com/iho/lpledger/internal/adapter/idgen"
	"github.com/iho/lpledger/internal/app"
	"github.com/iho/lpledger/internal/infrastructure/config"
	"github.com/iho/lpledger/internal/infrastructure/logger"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
	"github.com/iho/lpledger/internal/usecase"
)

const limiterCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reg := newRegistry()
	m := metrics.New(reg)

	components, err := app.Build(ctx, cfg, log, m)
	if err != nil {
		return err
	}
	defer components.Close()

	// Initialize use cases
	ids := idgen.NewULIDGenerator()
	session := usecase.NewLedgerSession(components.Ledger, ids, log, m)
	reportUC := usecase.NewReportUseCase(session, ids, log, m)
	fundsUC := usecase.NewFundsUseCase(components.Transactions, ids, log, m)

	checks := make(map[string]handler.Check, len(components.Checks))
	for name, check := range components.Checks {
		checks[name] = handler.Check(check)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)
	go cleanupLimiters(ctx, rateLimiter)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		LedgerHandler:    handler.NewLedgerHandler(reportUC, cfg.DefaultPageSize),
		FundsHandler:     handler.NewFundsHandler(fundsUC, cfg.DefaultPageSize),
		HealthHandler:    handler.NewHealthHandler(checks),
		IdempotencyStore: components.IdempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Gatherer:         reg,
		Logger:           log,
	})

	server := newServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(limiterCleanupInterval)
		}
	}
}
