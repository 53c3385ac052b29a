package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// withTx runs fn inside a transaction. The transaction is committed when fn
// succeeds and rolled back otherwise.
func withTx(ctx context.Context, pool pgxPool, fn func(tx pgx.Tx) error) (err error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
