package reporting

import (
	"sort"
	"strings"

	"github.com/iho/lpledger/internal/domain"
)

// SortField names the entry field used for ordering.
type SortField string

const (
	SortByDate           SortField = "date"
	SortByAmount         SortField = "amount"
	SortByRunningBalance SortField = "runningBalance"
	SortByType           SortField = "entryType"
)

// SortOrder is ascending or descending.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortField parses a sort field, defaulting to date.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amount":
		return SortByAmount
	case "runningbalance", "balance":
		return SortByRunningBalance
	case "entrytype", "type":
		return SortByType
	default:
		return SortByDate
	}
}

// ParseSortOrder parses a sort order, defaulting to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// SortEntries returns a stably sorted copy of entries.
func SortEntries(entries []domain.LedgerEntry, field SortField, order SortOrder) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)

	compare := func(a, b domain.LedgerEntry) int {
		switch field {
		case SortByAmount:
			return a.Amount.Cmp(b.Amount)
		case SortByRunningBalance:
			return a.RunningBalance.Cmp(b.RunningBalance)
		case SortByType:
			return strings.Compare(string(a.EntryType), string(b.EntryType))
		default:
			return a.Date.Compare(b.Date)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if order == SortAsc {
			return c < 0
		}
		return c > 0
	})

	return out
}
