package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/usecase"
)

// Confirmation messages returned by CreateTransaction.
const (
	MsgDepositSubmitted    = "Deposit request submitted"
	MsgWithdrawalSubmitted = "Withdrawal request submitted"
	MsgAlreadySubmitted    = "Request already submitted"
)

// TransactionRepository implements usecase.TransactionSource. Submitted
// transactions are stored as PENDING requests; balances change only when a
// request is settled.
type TransactionRepository struct {
	pool  pgxPool
	idGen usecase.IDGenerator
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool, idGen usecase.IDGenerator) *TransactionRepository {
	return newTransactionRepositoryWithPool(pool, idGen)
}

func newTransactionRepositoryWithPool(pool pgxPool, idGen usecase.IDGenerator) *TransactionRepository {
	return &TransactionRepository{pool: pool, idGen: idGen}
}

// ListTransactions retrieves one page of fund transactions.
func (r *TransactionRepository) ListTransactions(ctx context.Context, q usecase.TransactionQuery) (*usecase.TransactionPage, error) {
	query := buildTransactionQuery(q)

	var total int64
	if err := r.pool.QueryRow(ctx, query.countSQL, query.countArgs...).Scan(&total); err != nil {
		return nil, sourceError("count fund transactions", err)
	}

	rows, err := r.pool.Query(ctx, query.pageSQL, query.pageArgs...)
	if err != nil {
		return nil, sourceError("query fund transactions", err)
	}
	defer rows.Close()

	txs := make([]domain.FundTransaction, 0)
	for rows.Next() {
		var (
			tx                    domain.FundTransaction
			txType, asset, status string
			amount, newBalance    string
			createdAt             time.Time
		)
		if err := rows.Scan(&tx.TransactionID, &txType, &asset, &status, &amount, &newBalance, &createdAt); err != nil {
			return nil, sourceError("scan fund transaction", err)
		}

		tx.Type = domain.TransactionType(txType)
		tx.Asset = domain.Asset(asset)
		tx.Status = domain.TransactionStatus(status)
		tx.Date = createdAt.UTC()
		if tx.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: invalid amount %q: %w", domain.ErrSourceRejected, amount, err)
		}
		if tx.NewBalance, err = decimal.NewFromString(newBalance); err != nil {
			return nil, fmt.Errorf("%w: invalid balance %q: %w", domain.ErrSourceRejected, newBalance, err)
		}

		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read fund transactions", err)
	}

	return &usecase.TransactionPage{
		Transactions: txs,
		Total:        int(total),
		Pages:        pageCount(int(total), query.limit),
	}, nil
}

// GetBalances retrieves the balances of an account. Assets without a row
// are reported as zero.
func (r *TransactionRepository) GetBalances(ctx context.Context, accountID string) (domain.Balances, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT asset, balance::text FROM fund_balances WHERE account_id = $1", accountID)
	if err != nil {
		return nil, sourceError("query balances", err)
	}
	defer rows.Close()

	balances := domain.Balances{
		domain.AssetCash: decimal.Zero,
		domain.AssetGold: decimal.Zero,
	}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, sourceError("scan balance", err)
		}

		asset, err := domain.ParseAsset(key)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(value)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid balance %q: %w", domain.ErrSourceRejected, value, err)
		}
		balances[asset] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, sourceError("read balances", err)
	}

	return balances, nil
}

// CreateTransaction records a pending deposit or withdrawal. A withdrawal
// exceeding the current balance is rejected. A repeated idempotency key
// returns MsgAlreadySubmitted without inserting a second request.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, req usecase.CreateTransactionRequest) (string, error) {
	if !req.Amount.IsPositive() {
		return "", fmt.Errorf("%w: amount must be positive", domain.ErrSourceRejected)
	}

	msg := MsgDepositSubmitted
	if req.Type == domain.TransactionWithdrawal {
		msg = MsgWithdrawalSubmitted
	}

	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		if req.IdempotencyKey != "" {
			var existing string
			err := tx.QueryRow(ctx,
				"SELECT transaction_id FROM fund_transactions WHERE idempotency_key = $1",
				req.IdempotencyKey,
			).Scan(&existing)
			if err == nil {
				msg = MsgAlreadySubmitted
				return nil
			}
			if !errors.Is(err, pgx.ErrNoRows) {
				return err
			}
		}

		balance := decimal.Zero
		var value string
		err := tx.QueryRow(ctx,
			"SELECT balance::text FROM fund_balances WHERE account_id = $1 AND asset = $2 FOR UPDATE",
			req.AccountID, string(req.Asset),
		).Scan(&value)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
		case err != nil:
			return err
		default:
			if balance, err = decimal.NewFromString(value); err != nil {
				return fmt.Errorf("%w: invalid balance %q: %w", domain.ErrSourceRejected, value, err)
			}
		}

		if req.Type == domain.TransactionWithdrawal && balance.LessThan(req.Amount) {
			return fmt.Errorf("%w: insufficient %s balance", domain.ErrSourceRejected, req.Asset)
		}

		_, err = tx.Exec(ctx,
			"INSERT INTO fund_transactions (transaction_id, account_id, type, asset, status, amount, new_balance, idempotency_key) "+
				"VALUES ($1, $2, $3, $4, $5, $6::numeric, $7::numeric, NULLIF($8, ''))",
			r.idGen.Generate(),
			req.AccountID,
			string(req.Type),
			string(req.Asset),
			string(domain.TransactionPending),
			req.Amount.String(),
			balance.String(),
			req.IdempotencyKey,
		)
		return err
	})
	if err != nil {
		return "", sourceError("create fund transaction", err)
	}

	return msg, nil
}
