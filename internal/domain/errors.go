package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// Source errors
	ErrSourceUnavailable = errors.New("ledger source unavailable")
	ErrSourceRejected    = errors.New("request rejected by source")
	ErrStaleResponse     = errors.New("response superseded by a newer request")

	// Entry errors
	ErrMalformedEntry = errors.New("malformed ledger entry")
	ErrMissingNature  = fmt.Errorf("%w: missing entry nature", ErrMalformedEntry)
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrMalformedEntry)

	// Fund transaction errors
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrInvalidAsset           = errors.New("invalid asset")
	ErrInvalidTransactionType = errors.New("invalid transaction type")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrSubmissionInProgress   = errors.New("a submission is already in progress")
	ErrInvalidGuardTransition = errors.New("invalid balance guard transition")
)

// InsufficientBalanceError is returned when a withdrawal exceeds the last
// known balance of an asset.
type InsufficientBalanceError struct {
	Asset     Asset
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s balance: requested %s, available %s",
		e.Asset, e.Requested.String(), e.Available.String())
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}
