package retrysource

import (
	"context"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

// LedgerSource retries a usecase.LedgerSource.
type LedgerSource struct {
	next    usecase.LedgerSource
	retrier *Retrier
}

// NewLedgerSource creates a new LedgerSource.
func NewLedgerSource(next usecase.LedgerSource, retrier *Retrier) *LedgerSource {
	return &LedgerSource{next: next, retrier: retrier}
}

// FetchLedger fetches one page, retrying transient failures.
func (s *LedgerSource) FetchLedger(ctx context.Context, q usecase.LedgerQuery) (*usecase.LedgerPage, error) {
	var page *usecase.LedgerPage
	err := s.retrier.Retry(ctx, "fetch_ledger", func() error {
		var err error
		page, err = s.next.FetchLedger(ctx, q)
		return err
	})
	return page, err
}

// TransactionSource retries a usecase.TransactionSource. Submissions are
// retried only when they carry an idempotency key.
type TransactionSource struct {
	next    usecase.TransactionSource
	retrier *Retrier
}

// NewTransactionSource creates a new TransactionSource.
func NewTransactionSource(next usecase.TransactionSource, retrier *Retrier) *TransactionSource {
	return &TransactionSource{next: next, retrier: retrier}
}

// ListTransactions fetches one page, retrying transient failures.
func (s *TransactionSource) ListTransactions(ctx context.Context, q usecase.TransactionQuery) (*usecase.TransactionPage, error) {
	var page *usecase.TransactionPage
	err := s.retrier.Retry(ctx, "list_transactions", func() error {
		var err error
		page, err = s.next.ListTransactions(ctx, q)
		return err
	})
	return page, err
}

// GetBalances fetches the balances, retrying transient failures.
func (s *TransactionSource) GetBalances(ctx context.Context, accountID string) (domain.Balances, error) {
	var balances domain.Balances
	err := s.retrier.Retry(ctx, "get_balances", func() error {
		var err error
		balances, err = s.next.GetBalances(ctx, accountID)
		return err
	})
	return balances, err
}

// CreateTransaction submits a transaction. Without an idempotency key a
// failed submission is not repeated.
func (s *TransactionSource) CreateTransaction(ctx context.Context, req usecase.CreateTransactionRequest) (string, error) {
	if req.IdempotencyKey == "" {
		return s.next.CreateTransaction(ctx, req)
	}

	var msg string
	err := s.retrier.Retry(ctx, "create_transaction", func() error {
		var err error
		msg, err = s.next.CreateTransaction(ctx, req)
		return err
	})
	return msg, err
}
