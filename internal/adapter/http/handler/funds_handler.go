package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/lpledger/internal/adapter/http/dto"
	"github.com/iho/lpledger/internal/adapter/http/middleware"
	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

// FundsService is the part of usecase.FundsUseCase used by FundsHandler.
type FundsService interface {
	ListTransactions(ctx context.Context, q usecase.TransactionQuery) (*usecase.TransactionPage, error)
	Balances(ctx context.Context, accountID string) (domain.Balances, error)
	SubmitOnce(ctx context.Context, input usecase.SubmitFundsInput) (*usecase.SubmitFundsResult, error)
}

// FundsHandler handles fund transaction requests.
type FundsHandler struct {
	funds           FundsService
	defaultPageSize int
}

// NewFundsHandler creates a new FundsHandler.
func NewFundsHandler(funds FundsService, defaultPageSize int) *FundsHandler {
	return &FundsHandler{funds: funds, defaultPageSize: defaultPageSize}
}

// ListTransactions lists the fund transactions of an account.
func (h *FundsHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	q, err := dto.TransactionQueryFromQuery(id, r.URL.Query(), h.defaultPageSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	q.Page, q.Limit = domain.ValidatePagination(q.Page, q.Limit)

	page, err := h.funds.ListTransactions(r.Context(), q)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromPage(q, page))
}

// Balance returns the balances of an account.
func (h *FundsHandler) Balance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	balances, err := h.funds.Balances(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(id, balances))
}

// Submit submits a deposit or withdrawal. A withdrawal above the current
// balance is rejected without reaching the source.
func (h *FundsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	var req dto.SubmitFundsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.funds.SubmitOnce(r.Context(), req.ToUseCaseInput(id, r.Header.Get(middleware.IdempotencyKeyHeader)))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to submit transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, dto.SubmitFundsFromResult(result))
}
