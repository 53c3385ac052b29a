package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

// ErrorResponse is the body of every error answer.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// EntryResponse is a ledger entry with its derived classification.
type EntryResponse struct {
	domain.LedgerEntry
	AssetClass   domain.AssetClass `json:"assetClass"`
	SignedAmount decimal.Decimal   `json:"signedAmount"`
}

// PaginationResponse describes the returned page.
type PaginationResponse struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// LedgerResponse is the aggregated ledger view of an account.
type LedgerResponse struct {
	AccountID     string                  `json:"accountId"`
	Entries       []EntryResponse         `json:"entries"`
	Pagination    PaginationResponse      `json:"pagination"`
	Totals        reporting.LedgerTotals  `json:"totals"`
	Profit        reporting.ProfitSummary `json:"profit"`
	Discrepancies []reporting.Discrepancy `json:"discrepancies"`
	GeneratedAt   time.Time               `json:"generatedAt"`
}

// LedgerFromReport converts a report to a response.
func LedgerFromReport(r *usecase.Report) *LedgerResponse {
	entries := make([]EntryResponse, len(r.Entries.Items))
	for i, e := range r.Entries.Items {
		entries[i] = EntryResponse{
			LedgerEntry:  e,
			AssetClass:   domain.Classify(e).AssetClass,
			SignedAmount: e.SignedAmount(),
		}
	}

	discrepancies := r.Discrepancies
	if discrepancies == nil {
		discrepancies = []reporting.Discrepancy{}
	}

	return &LedgerResponse{
		AccountID: r.AccountID,
		Entries:   entries,
		Pagination: PaginationResponse{
			Page:       r.Entries.Page,
			PageSize:   r.Entries.PageSize,
			TotalItems: r.Entries.TotalItems,
			TotalPages: r.Entries.TotalPages,
		},
		Totals:        r.Totals,
		Profit:        r.Profit,
		Discrepancies: discrepancies,
		GeneratedAt:   r.GeneratedAt,
	}
}

// TransactionsResponse is one page of fund transactions.
type TransactionsResponse struct {
	Transactions []domain.FundTransaction `json:"transactions"`
	Pagination   PaginationResponse       `json:"pagination"`
}

// TransactionsFromPage converts a transaction page to a response.
func TransactionsFromPage(q usecase.TransactionQuery, p *usecase.TransactionPage) *TransactionsResponse {
	txs := p.Transactions
	if txs == nil {
		txs = []domain.FundTransaction{}
	}
	return &TransactionsResponse{
		Transactions: txs,
		Pagination: PaginationResponse{
			Page:       q.Page,
			PageSize:   q.Limit,
			TotalItems: p.Total,
			TotalPages: p.Pages,
		},
	}
}

// BalanceResponse holds the balances of an account.
type BalanceResponse struct {
	AccountID string                     `json:"accountId"`
	Balances  map[string]decimal.Decimal `json:"balances"`
}

// BalanceFromDomain converts balances to a response.
func BalanceFromDomain(accountID string, b domain.Balances) *BalanceResponse {
	out := make(map[string]decimal.Decimal, len(b))
	for asset, amount := range b {
		out[string(asset)] = amount
	}
	return &BalanceResponse{AccountID: accountID, Balances: out}
}

// SubmitFundsResponse is the outcome of a fund submission.
type SubmitFundsResponse struct {
	IdempotencyKey string            `json:"idempotencyKey"`
	State          domain.GuardState `json:"state"`
	Message        string            `json:"message,omitempty"`
	Asset          domain.Asset      `json:"asset"`
	Confirmed      decimal.Decimal   `json:"confirmedBalance"`
	Effective      decimal.Decimal   `json:"effectiveBalance"`
}

// SubmitFundsFromResult converts a submission result to a response.
func SubmitFundsFromResult(r *usecase.SubmitFundsResult) *SubmitFundsResponse {
	return &SubmitFundsResponse{
		IdempotencyKey: r.IdempotencyKey,
		State:          r.State,
		Message:        r.Message,
		Asset:          r.Asset,
		Confirmed:      r.Confirmed,
		Effective:      r.Effective,
	}
}
