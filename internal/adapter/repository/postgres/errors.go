package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/lpledger/internal/domain"
)

// PostgreSQL error codes for transient failures.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrCannotConnectNow     = "57P03"
	pgErrAdminShutdown        = "57P01"
)

// isRetryableError checks if a PostgreSQL error is transient.
func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrDeadlock, pgErrSerializationFailure, pgErrCannotConnectNow, pgErrAdminShutdown:
			return true
		}
		return false
	}
	return pgconn.SafeToRetry(err) || pgconn.Timeout(err)
}

// sourceError maps a database error onto the source error model. Transient
// and connection failures wrap domain.ErrSourceUnavailable; any other server
// error wraps domain.ErrSourceRejected. Cancellation and errors already
// mapped are passed through.
func sourceError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, domain.ErrSourceUnavailable) ||
		errors.Is(err, domain.ErrSourceRejected) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && !isRetryableError(err) {
		return fmt.Errorf("%w: %s: %s (%s)", domain.ErrSourceRejected, op, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, op, err)
}
