// Package reporting holds the pure ledger reporting engine: aggregation,
// filtering, sorting, pagination, reconciliation and export projection.
package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

// AggregateTotals are the debit/credit sums of one asset class.
type AggregateTotals struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	NetBalance  decimal.Decimal `json:"netBalance"`
	Count       int             `json:"count"`
}

// Anomaly is an entry excluded from aggregation.
type Anomaly struct {
	Err     error  `json:"-"`
	EntryID string `json:"entryId"`
	Reason  string `json:"reason"`
}

// LedgerTotals are the per asset class totals of an entry set.
type LedgerTotals struct {
	Fiat      AggregateTotals `json:"fiat"`
	Metal     AggregateTotals `json:"metal"`
	Anomalies []Anomaly       `json:"anomalies,omitempty"`
}

// For returns the totals of an asset class.
func (t LedgerTotals) For(class domain.AssetClass) AggregateTotals {
	if class == domain.AssetClassMetal {
		return t.Metal
	}
	return t.Fiat
}

// Accumulator folds entries into LedgerTotals one at a time.
type Accumulator struct {
	fiat      AggregateTotals
	metal     AggregateTotals
	anomalies []Anomaly
}

// NewAccumulator returns an empty accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		fiat:  zeroTotals(),
		metal: zeroTotals(),
	}
}

func zeroTotals() AggregateTotals {
	return AggregateTotals{
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
		NetBalance:  decimal.Zero,
	}
}

// Add folds one entry. Structurally invalid entries are recorded as
// anomalies and do not contribute to any total.
func (a *Accumulator) Add(e domain.LedgerEntry) {
	if err := e.Validate(); err != nil {
		a.anomalies = append(a.anomalies, Anomaly{
			EntryID: e.ID(),
			Reason:  err.Error(),
			Err:     err,
		})
		return
	}

	c := domain.Classify(e)
	bucket := &a.fiat
	if c.AssetClass == domain.AssetClassMetal {
		bucket = &a.metal
	}

	switch c.Nature {
	case domain.NatureCredit:
		bucket.TotalCredit = bucket.TotalCredit.Add(e.Amount)
	case domain.NatureDebit:
		bucket.TotalDebit = bucket.TotalDebit.Add(e.Amount)
	}
	bucket.NetBalance = bucket.TotalCredit.Sub(bucket.TotalDebit)
	bucket.Count++
}

// Totals returns the accumulated totals.
func (a *Accumulator) Totals() LedgerTotals {
	anomalies := make([]Anomaly, len(a.anomalies))
	copy(anomalies, a.anomalies)

	return LedgerTotals{
		Fiat:      a.fiat,
		Metal:     a.metal,
		Anomalies: anomalies,
	}
}

// Aggregate computes per asset class totals of entries in a single pass.
func Aggregate(entries []domain.LedgerEntry) LedgerTotals {
	acc := NewAccumulator()
	for _, e := range entries {
		acc.Add(e)
	}
	return acc.Totals()
}
