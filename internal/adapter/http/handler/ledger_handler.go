package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/iho/lpledger/internal/adapter/http/dto"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

// ViewIDHeader names the client view a ledger request belongs to. It takes
// precedence over the viewId query parameter.
const ViewIDHeader = "X-View-Id"

// ReportService is the part of usecase.ReportUseCase used by LedgerHandler.
type ReportService interface {
	BuildReport(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error)
	TradeStats(ctx context.Context, input usecase.ReportInput) (*reporting.ProfitSummary, error)
	Export(ctx context.Context, input usecase.ExportInput) (*usecase.ExportResult, error)
}

// LedgerHandler handles ledger report requests.
type LedgerHandler struct {
	reports         ReportService
	defaultPageSize int
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(reports ReportService, defaultPageSize int) *LedgerHandler {
	return &LedgerHandler{reports: reports, defaultPageSize: defaultPageSize}
}

// Get returns the filtered, sorted and paged ledger with its totals.
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	input, ok := h.input(w, r)
	if !ok {
		return
	}

	report, err := h.reports.BuildReport(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build ledger report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.LedgerFromReport(report))
}

// TradeStats returns the profit statistics of the selected trades.
func (h *LedgerHandler) TradeStats(w http.ResponseWriter, r *http.Request) {
	input, ok := h.input(w, r)
	if !ok {
		return
	}

	stats, err := h.reports.TradeStats(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute trade stats", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ExportCSV downloads the selected entries as CSV.
func (h *LedgerHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportCSV, "attachment")
}

// ReportHTML renders the selected entries as a printable HTML report.
func (h *LedgerHandler) ReportHTML(w http.ResponseWriter, r *http.Request) {
	h.export(w, r, usecase.ExportHTML, "inline")
}

func (h *LedgerHandler) export(w http.ResponseWriter, r *http.Request, format usecase.ExportFormat, disposition string) {
	input, ok := h.input(w, r)
	if !ok {
		return
	}

	result, err := h.reports.Export(r.Context(), usecase.ExportInput{
		ReportInput: input,
		Format:      format,
		Title:       r.URL.Query().Get("title"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to export ledger", err.Error())
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Body)))
	w.Header().Set("X-Export-Id", result.ID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Body)
}

func (h *LedgerHandler) input(w http.ResponseWriter, r *http.Request) (usecase.ReportInput, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return usecase.ReportInput{}, false
	}

	in := dto.ReportInputFromQuery(id, r.URL.Query(), h.defaultPageSize)
	if view := strings.TrimSpace(r.Header.Get(ViewIDHeader)); view != "" {
		in.ViewID = view
	}
	return in, true
}
