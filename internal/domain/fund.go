package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of a fund transaction.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
)

// Asset is the asset a fund transaction moves.
type Asset string

const (
	AssetCash Asset = "CASH"
	AssetGold Asset = "GOLD"
)

// AssetClass returns the ledger asset class of a fund asset.
func (a Asset) AssetClass() AssetClass {
	if a == AssetGold {
		return AssetClassMetal
	}
	return AssetClassFiat
}

// TransactionStatus is the lifecycle status reported by the transaction source.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionFailed    TransactionStatus = "FAILED"
)

// FundTransaction is a deposit or withdrawal as reported by the transaction source.
type FundTransaction struct {
	Date          time.Time         `json:"date"`
	TransactionID string            `json:"transactionId"`
	Type          TransactionType   `json:"type"`
	Asset         Asset             `json:"asset"`
	Status        TransactionStatus `json:"status"`
	Amount        decimal.Decimal   `json:"amount"`
	NewBalance    decimal.Decimal   `json:"newBalance"`
}

// Balances maps each asset to its balance.
type Balances map[Asset]decimal.Decimal

// Get returns the balance of an asset, zero when unknown.
func (b Balances) Get(asset Asset) decimal.Decimal {
	if v, ok := b[asset]; ok {
		return v
	}
	return decimal.Zero
}

// Clone returns a copy of the balances.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// ParseAsset parses a fund asset, case-insensitively.
func ParseAsset(s string) (Asset, error) {
	switch Asset(strings.ToUpper(strings.TrimSpace(s))) {
	case AssetCash:
		return AssetCash, nil
	case AssetGold:
		return AssetGold, nil
	default:
		return "", ErrInvalidAsset
	}
}

// ParseTransactionType parses a fund transaction type, case-insensitively.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionDeposit:
		return TransactionDeposit, nil
	case TransactionWithdrawal:
		return TransactionWithdrawal, nil
	default:
		return "", ErrInvalidTransactionType
	}
}
