package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// LedgerQuery is a single page request against a LedgerSource.
type LedgerQuery struct {
	AccountID string
	Page      int
	Limit     int
	SortBy    reporting.SortField
	SortOrder reporting.SortOrder
	Criteria  domain.FilterCriteria
	// Now anchors relative date buckets when they are translated to bounds.
	Now time.Time
	// ViewID names the client view the fetch belongs to. A newer fetch for
	// the same account and view supersedes an older one. Sources ignore it.
	ViewID string
}

// LedgerPage is one page of ledger entries plus the source pagination info.
type LedgerPage struct {
	Entries []domain.LedgerEntry
	Total   int
	Pages   int
}

// LedgerSource defines read access to the ledger entries of an account.
type LedgerSource interface {
	FetchLedger(ctx context.Context, q LedgerQuery) (*LedgerPage, error)
}

// LedgerCollector is a LedgerSource that returns every entry of a query in
// one consistent read. LedgerSession uses it instead of paging.
type LedgerCollector interface {
	LedgerSource
	CollectLedger(ctx context.Context, q LedgerQuery) ([]domain.LedgerEntry, error)
}

// TransactionQuery is a page request for fund transactions.
type TransactionQuery struct {
	AccountID string
	Page      int
	Limit     int
	Type      domain.TransactionType
	Asset     domain.Asset
	Status    domain.TransactionStatus
}

// TransactionPage is one page of fund transactions.
type TransactionPage struct {
	Transactions []domain.FundTransaction
	Total        int
	Pages        int
}

// CreateTransactionRequest submits a deposit or withdrawal.
type CreateTransactionRequest struct {
	AccountID      string
	Type           domain.TransactionType
	Asset          domain.Asset
	Amount         decimal.Decimal
	IdempotencyKey string
}

// TransactionSource defines access to fund transactions and balances.
type TransactionSource interface {
	ListTransactions(ctx context.Context, q TransactionQuery) (*TransactionPage, error)
	// CreateTransaction returns the confirmation message of the source.
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (string, error)
	GetBalances(ctx context.Context, accountID string) (domain.Balances, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claim so the key can be used again.
	Release(ctx context.Context, key string) error
}
