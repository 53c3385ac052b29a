package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/adapter/http/handler"
	"github.com/iho/lpledger/internal/adapter/http/middleware"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
	"github.com/iho/lpledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	LedgerHandler    *handler.LedgerHandler
	FundsHandler     *handler.FundsHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// API v1
	r.Route("/api/v1/accounts/{id}", func(r chi.Router) {
		r.Get("/ledger", cfg.LedgerHandler.Get)
		r.Get("/ledger/export.csv", cfg.LedgerHandler.ExportCSV)
		r.Get("/ledger/report.html", cfg.LedgerHandler.ReportHTML)
		r.Get("/trades/stats", cfg.LedgerHandler.TradeStats)

		r.Get("/transactions", cfg.FundsHandler.ListTransactions)
		r.Get("/balance", cfg.FundsHandler.Balance)

		submit := r.With()
		if cfg.IdempotencyStore != nil {
			submit = r.With(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger).Wrap)
		}
		submit.Post("/transactions", cfg.FundsHandler.Submit)
	})

	return r
}
