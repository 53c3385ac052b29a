package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

// Discrepancy is an entry whose source-reported running balance does not
// follow from the previous entry of the same asset class.
type Discrepancy struct {
	EntryID    string            `json:"entryId"`
	AssetClass domain.AssetClass `json:"assetClass"`
	Expected   decimal.Decimal   `json:"expected"`
	Reported   decimal.Decimal   `json:"reported"`
	Difference decimal.Decimal   `json:"difference"`
}

// CheckRunningBalances walks entries chronologically per asset class and
// reports every entry where previous.RunningBalance + signed amount differs
// from the reported RunningBalance. Only a contiguous, unfiltered entry set
// gives meaningful results. Entries failing Validate are skipped.
func CheckRunningBalances(entries []domain.LedgerEntry) []Discrepancy {
	ordered := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if e.Validate() == nil {
			ordered = append(ordered, e)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	var discrepancies []Discrepancy
	last := map[domain.AssetClass]decimal.Decimal{}

	for _, e := range ordered {
		class := domain.Classify(e).AssetClass

		if prev, ok := last[class]; ok {
			expected := prev.Add(e.SignedAmount())
			if !expected.Equal(e.RunningBalance) {
				discrepancies = append(discrepancies, Discrepancy{
					EntryID:    e.ID(),
					AssetClass: class,
					Expected:   expected,
					Reported:   e.RunningBalance,
					Difference: e.RunningBalance.Sub(expected),
				})
			}
		}

		last[class] = e.RunningBalance
	}

	return discrepancies
}
