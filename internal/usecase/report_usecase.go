package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/infrastructure/metrics"
	"github.com/iho/lpledger/internal/reporting"
)

// ExportFormat is the output format of an export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportHTML ExportFormat = "html"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseExportFormat parses an export format, case-insensitively.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case ExportCSV:
		return ExportCSV, nil
	case ExportHTML:
		return ExportHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ReportInput selects, orders and pages the entries of a report.
type ReportInput struct {
	AccountID string
	Criteria  domain.FilterCriteria
	SortBy    reporting.SortField
	SortOrder reporting.SortOrder
	Page      int
	PageSize  int
	// Now anchors date buckets; zero means the current time.
	Now time.Time
	// ViewID scopes stale response detection; empty disables it.
	ViewID string
}

// Report is the aggregated view of an account ledger.
type Report struct {
	AccountID     string
	Entries       reporting.Page[domain.LedgerEntry]
	Totals        reporting.LedgerTotals
	Profit        reporting.ProfitSummary
	Discrepancies []reporting.Discrepancy
	GeneratedAt   time.Time
}

// ExportInput is a report selection rendered to a file.
type ExportInput struct {
	ReportInput
	Format ExportFormat
	Title  string
}

// ExportResult is a rendered export.
type ExportResult struct {
	ID          string
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}

// ReportUseCase builds ledger reports, trade statistics and exports.
type ReportUseCase struct {
	session *LedgerSession
	idGen   IDGenerator
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(
	session *LedgerSession,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *ReportUseCase {
	return &ReportUseCase{
		session: session,
		idGen:   idGen,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

type selection struct {
	entries       []domain.LedgerEntry
	totals        reporting.LedgerTotals
	discrepancies []reporting.Discrepancy
	now           time.Time
}

// BuildReport fetches every entry of the account, then filters, sorts,
// aggregates and pages them. Running balances are only reconciled when no
// filter is active.
func (uc *ReportUseCase) BuildReport(ctx context.Context, input ReportInput) (*Report, error) {
	start := time.Now()

	sel, err := uc.selectEntries(ctx, input)
	if err != nil {
		return nil, err
	}

	page, pageSize := domain.ValidatePagination(input.Page, input.PageSize)

	report := &Report{
		AccountID:     input.AccountID,
		Entries:       reporting.Paginate(sel.entries, page, pageSize),
		Totals:        sel.totals,
		Profit:        reporting.ProfitStats(reporting.TradesFromEntries(sel.entries)),
		Discrepancies: sel.discrepancies,
		GeneratedAt:   sel.now.UTC(),
	}

	if uc.metrics != nil {
		uc.metrics.ReportsBuilt.Inc()
		uc.metrics.ReportDuration.Observe(time.Since(start).Seconds())
		uc.metrics.ReportEntries.Observe(float64(len(sel.entries)))
	}

	return report, nil
}

// TradeStats returns the profit summary of the orders and positions
// matching the input criteria.
func (uc *ReportUseCase) TradeStats(ctx context.Context, input ReportInput) (*reporting.ProfitSummary, error) {
	sel, err := uc.selectEntries(ctx, input)
	if err != nil {
		return nil, err
	}

	summary := reporting.ProfitStats(reporting.TradesFromEntries(sel.entries))
	return &summary, nil
}

// Export renders the full filtered and sorted entry set as CSV or HTML.
func (uc *ReportUseCase) Export(ctx context.Context, input ExportInput) (*ExportResult, error) {
	if _, err := ParseExportFormat(string(input.Format)); err != nil {
		return nil, err
	}

	sel, err := uc.selectEntries(ctx, input.ReportInput)
	if err != nil {
		return nil, err
	}

	projection := reporting.Project(sel.entries, sel.totals)
	result := &ExportResult{
		ID:   uc.idGen.Generate(),
		Rows: len(projection.Rows),
	}

	var buf bytes.Buffer
	switch input.Format {
	case ExportCSV:
		if err := reporting.WriteCSV(&buf, projection); err != nil {
			return nil, err
		}
		result.FileName = reporting.CSVFileName(sel.now)
		result.ContentType = reporting.CSVContentType
	case ExportHTML:
		meta := reporting.ReportMeta{
			GeneratedAt: sel.now,
			Title:       input.Title,
			AccountID:   input.AccountID,
		}
		if err := reporting.WriteHTML(&buf, projection, meta); err != nil {
			return nil, err
		}
		result.FileName = reporting.HTMLFileName(sel.now)
		result.ContentType = reporting.HTMLContentType
	}
	result.Body = buf.Bytes()

	if uc.metrics != nil {
		uc.metrics.ExportsGenerated.WithLabelValues(string(input.Format)).Inc()
	}

	uc.logger.Info().
		Str("export_id", result.ID).
		Str("account_id", input.AccountID).
		Str("format", string(input.Format)).
		Int("rows", result.Rows).
		Msg("export generated")

	return result, nil
}

func (uc *ReportUseCase) selectEntries(ctx context.Context, input ReportInput) (*selection, error) {
	now := input.Now
	if now.IsZero() {
		now = uc.now()
	}

	all, err := uc.session.Fetch(ctx, LedgerQuery{
		AccountID: input.AccountID,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Criteria:  input.Criteria,
		Now:       now,
		ViewID:    input.ViewID,
	})
	if err != nil {
		return nil, err
	}

	filtered := reporting.ApplyFilters(all, input.Criteria, now)
	sorted := reporting.SortEntries(filtered, input.SortBy, input.SortOrder)
	totals := reporting.Aggregate(sorted)

	for _, a := range totals.Anomalies {
		uc.logger.Warn().
			Err(a.Err).
			Str("account_id", input.AccountID).
			Str("entry_id", a.EntryID).
			Msg("entry excluded from totals")
	}
	if uc.metrics != nil {
		uc.metrics.ExcludedEntries.Add(float64(len(totals.Anomalies)))
	}

	sel := &selection{entries: sorted, totals: totals, now: now}

	if input.Criteria.IsEmpty() {
		sel.discrepancies = reporting.CheckRunningBalances(sorted)
		for _, d := range sel.discrepancies {
			uc.logger.Warn().
				Str("account_id", input.AccountID).
				Str("entry_id", d.EntryID).
				Str("asset_class", string(d.AssetClass)).
				Str("expected", d.Expected.String()).
				Str("reported", d.Reported.String()).
				Msg("running balance discrepancy")
		}
		if uc.metrics != nil {
			uc.metrics.BalanceDiscrepancies.Add(float64(len(sel.discrepancies)))
		}
	}

	return sel, nil
}
