package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is a profit-bearing record used for profit/loss statistics.
type Trade struct {
	Date    time.Time       `json:"date"`
	EntryID string          `json:"entryId,omitempty"`
	Symbol  string          `json:"symbol"`
	Side    string          `json:"type"`
	Volume  decimal.Decimal `json:"volume"`
	Profit  decimal.Decimal `json:"profit"`
}
