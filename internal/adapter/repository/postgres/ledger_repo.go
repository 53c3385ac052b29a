package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerSource.
type LedgerRepository struct {
	pool pgxPool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return newLedgerRepositoryWithPool(pool)
}

func newLedgerRepositoryWithPool(pool pgxPool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// entryDetails is the JSON layout of the details column.
type entryDetails struct {
	TransactionDetails *domain.TransactionDetails `json:"transactionDetails,omitempty"`
	OrderDetails       *domain.OrderDetails       `json:"orderDetails,omitempty"`
	PositionDetails    *domain.PositionDetails    `json:"positionDetails,omitempty"`
}

// FetchLedger retrieves one page of ledger entries.
func (r *LedgerRepository) FetchLedger(ctx context.Context, q usecase.LedgerQuery) (*usecase.LedgerPage, error) {
	query := buildLedgerQuery(q)

	var total int64
	if err := r.pool.QueryRow(ctx, query.countSQL, query.countArgs...).Scan(&total); err != nil {
		return nil, sourceError("count ledger entries", err)
	}

	rows, err := r.pool.Query(ctx, query.pageSQL, query.pageArgs...)
	if err != nil {
		return nil, sourceError("query ledger entries", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read ledger entries", err)
	}

	return &usecase.LedgerPage{
		Entries: entries,
		Total:   int(total),
		Pages:   pageCount(int(total), query.limit),
	}, nil
}

func scanEntry(row pgx.Row) (domain.LedgerEntry, error) {
	var (
		e              domain.LedgerEntry
		entryType      string
		entryNature    string
		amount         string
		runningBalance string
		details        []byte
		createdAt      time.Time
	)

	if err := row.Scan(
		&e.EntryID,
		&entryType,
		&entryNature,
		&e.ReferenceNumber,
		&e.Description,
		&e.User,
		&amount,
		&runningBalance,
		&details,
		&createdAt,
	); err != nil {
		return domain.LedgerEntry{}, sourceError("scan ledger entry", err)
	}

	e.EntryType = domain.EntryType(entryType)
	e.EntryNature = domain.EntryNature(entryNature)
	e.Date = createdAt.UTC()

	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("%w: invalid amount %q: %w", domain.ErrSourceRejected, amount, err)
	}
	if e.RunningBalance, err = decimal.NewFromString(runningBalance); err != nil {
		return domain.LedgerEntry{}, fmt.Errorf("%w: invalid running balance %q: %w", domain.ErrSourceRejected, runningBalance, err)
	}

	if len(details) > 0 {
		var d entryDetails
		if err := json.Unmarshal(details, &d); err != nil {
			return domain.LedgerEntry{}, fmt.Errorf("%w: invalid details of entry %s: %w", domain.ErrSourceRejected, e.ID(), err)
		}
		e.TransactionDetails = d.TransactionDetails
		e.OrderDetails = d.OrderDetails
		e.PositionDetails = d.PositionDetails
	}

	return e, nil
}
