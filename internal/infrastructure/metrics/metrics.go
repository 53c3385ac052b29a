package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Report metrics
	ReportsBuilt         prometheus.Counter
	ReportDuration       prometheus.Histogram
	ReportEntries        prometheus.Histogram
	ExportsGenerated     *prometheus.CounterVec
	ExcludedEntries      prometheus.Counter
	BalanceDiscrepancies prometheus.Counter

	// Source metrics
	EntriesFetched prometheus.Counter
	SourceRequests *prometheus.CounterVec
	SourceErrors   *prometheus.CounterVec
	SourceRetries  *prometheus.CounterVec
	StaleResponses prometheus.Counter

	// Cache metrics
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Funds metrics
	FundSubmissions *prometheus.CounterVec
	GuardRejections *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default Prometheus registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Report metrics
		ReportsBuilt: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_reports_built_total",
			Help: "Total number of ledger reports built",
		}),
		ReportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lpledger_report_duration_seconds",
			Help:    "Duration of report builds including source fetches",
			Buckets: prometheus.DefBuckets,
		}),
		ReportEntries: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lpledger_report_entries",
			Help:    "Number of entries in the filtered report set",
			Buckets: []float64{0, 10, 100, 500, 1000, 5000, 10000, 50000},
		}),
		ExportsGenerated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_exports_generated_total",
				Help: "Total number of exports by format",
			},
			[]string{"format"},
		),
		ExcludedEntries: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_excluded_entries_total",
			Help: "Total number of malformed entries excluded from totals",
		}),
		BalanceDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_balance_discrepancies_total",
			Help: "Total number of running balance discrepancies detected",
		}),

		// Source metrics
		EntriesFetched: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_entries_fetched_total",
			Help: "Total number of ledger entries fetched from sources",
		}),
		SourceRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_source_requests_total",
				Help: "Total source requests by operation",
			},
			[]string{"operation"},
		),
		SourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_source_errors_total",
				Help: "Total source errors by operation",
			},
			[]string{"operation"},
		),
		SourceRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_source_retries_total",
				Help: "Total source retries by operation",
			},
			[]string{"operation"},
		),
		StaleResponses: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_stale_responses_total",
			Help: "Total number of superseded fetch responses discarded",
		}),

		// Cache metrics
		CacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_cache_hits_total",
				Help: "Total cache hits by backend",
			},
			[]string{"backend"},
		),
		CacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_cache_misses_total",
				Help: "Total cache misses by backend",
			},
			[]string{"backend"},
		),

		// Funds metrics
		FundSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_fund_submissions_total",
				Help: "Total fund submissions by type and outcome",
			},
			[]string{"type", "status"},
		),
		GuardRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_guard_rejections_total",
				Help: "Total submissions rejected locally by the balance guard",
			},
			[]string{"asset"},
		),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lpledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lpledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "lpledger_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "lpledger_rate_limit_hits_total",
			Help: "Total rate limit hits",
		}),
	}
}
