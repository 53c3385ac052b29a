package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

var ledgerColumns = []string{
	"entry_id", "entry_type", "entry_nature", "reference_number", "description", "user_label",
	"amount", "running_balance", "details", "created_at",
}

func TestLedgerRepositoryFetchLedger(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newLedgerRepositoryWithPool(mockPool)
	at := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM ledger_entries WHERE account_id = $1")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries WHERE account_id = $1 ORDER BY created_at DESC")).
		WithArgs("acc-1", 2, 0).
		WillReturnRows(pgxmock.NewRows(ledgerColumns).
			AddRow("TX-1", "TRANSACTION", "CREDIT", "REF-1", "Gold deposit", "",
				"2.5", "2.5", []byte(`{"transactionDetails": {"type": "DEPOSIT", "asset": "GOLD"}}`), at).
			AddRow("OR-1", "ORDER", "DEBIT", "", "Sell XAUUSD", "trader",
				"100", "-97.5", []byte(`{"orderDetails": {"symbol": "XAUUSD", "type": "SELL", "profit": "12.5"}}`), at))

	page, err := repo.FetchLedger(context.Background(), usecase.LedgerQuery{AccountID: "acc-1", Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if page.Total != 3 || page.Pages != 2 {
		t.Fatalf("expected total 3 in 2 pages, got %d in %d", page.Total, page.Pages)
	}
	if len(page.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(page.Entries))
	}

	tx := page.Entries[0]
	if domain.Classify(tx).AssetClass != domain.AssetClassMetal {
		t.Fatalf("expected metal entry, got %+v", tx)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("2.5")) || !tx.Date.Equal(at) {
		t.Fatalf("unexpected entry: %+v", tx)
	}
	if tx.UserLabel() != domain.DefaultUserLabel {
		t.Fatalf("expected default user label, got %q", tx.UserLabel())
	}

	order := page.Entries[1]
	if order.OrderDetails == nil || order.OrderDetails.Side != "SELL" {
		t.Fatalf("expected order details, got %+v", order.OrderDetails)
	}
	if order.OrderDetails.Profit == nil || !order.OrderDetails.Profit.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected order profit: %v", order.OrderDetails.Profit)
	}
	if !order.RunningBalance.Equal(decimal.RequireFromString("-97.5")) {
		t.Fatalf("unexpected running balance: %s", order.RunningBalance)
	}

	assertExpectations(t, mockPool)
}

func TestLedgerRepositoryFetchLedgerWithoutDetails(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newLedgerRepositoryWithPool(mockPool)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM ledger_entries")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries")).
		WithArgs("acc-1", usecase.FetchPageSize, 0).
		WillReturnRows(pgxmock.NewRows(ledgerColumns).
			AddRow("", "LP_POSITION", "CREDIT", "", "", "", "1", "1", []byte(nil), time.Now()))

	page, err := repo.FetchLedger(context.Background(), usecase.LedgerQuery{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e := page.Entries[0]
	if e.TransactionDetails != nil || e.OrderDetails != nil || e.PositionDetails != nil {
		t.Fatalf("expected no details, got %+v", e)
	}
	if e.ID() != domain.DefaultEntryID {
		t.Fatalf("expected default entry id, got %q", e.ID())
	}
}

func TestLedgerRepositoryFetchLedgerInvalidDetails(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newLedgerRepositoryWithPool(mockPool)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM ledger_entries")).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mockPool.ExpectQuery(regexp.QuoteMeta("FROM ledger_entries")).
		WithArgs("acc-1", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(ledgerColumns).
			AddRow("TX-1", "TRANSACTION", "CREDIT", "", "", "", "1", "1", []byte(`{`), time.Now()))

	_, err := repo.FetchLedger(context.Background(), usecase.LedgerQuery{AccountID: "acc-1"})
	if !errors.Is(err, domain.ErrSourceRejected) {
		t.Fatalf("expected rejected error, got %v", err)
	}
}

func TestLedgerRepositoryFetchLedgerCountError(t *testing.T) {
	mockPool := newMockPool(t)
	repo := newLedgerRepositoryWithPool(mockPool)

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM ledger_entries")).
		WithArgs("acc-1").
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})

	_, err := repo.FetchLedger(context.Background(), usecase.LedgerQuery{AccountID: "acc-1"})
	if !errors.Is(err, domain.ErrSourceUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}

	assertExpectations(t, mockPool)
}
