package reporting

import (
	"strings"
	"time"

	"github.com/iho/lpledger/internal/domain"
)

type predicate func(e domain.LedgerEntry) bool

// ApplyFilters returns the entries matching every set criterion, in input
// order. Date buckets are evaluated against now. The criteria are not
// modified and the input slice is not reordered.
func ApplyFilters(entries []domain.LedgerEntry, c domain.FilterCriteria, now time.Time) []domain.LedgerEntry {
	preds := buildPredicates(c, now)

	out := make([]domain.LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if matchAll(preds, e) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether a single entry passes the criteria.
func Matches(e domain.LedgerEntry, c domain.FilterCriteria, now time.Time) bool {
	return matchAll(buildPredicates(c, now), e)
}

func matchAll(preds []predicate, e domain.LedgerEntry) bool {
	for _, p := range preds {
		if !p(e) {
			return false
		}
	}
	return true
}

func buildPredicates(c domain.FilterCriteria, now time.Time) []predicate {
	var preds []predicate

	if t := domain.NormalizeEntryType(c.EntryType); t != "" {
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return domain.NormalizeEntryType(e.EntryType) == t
		})
	}

	if n := domain.NormalizeNature(c.EntryNature); n != domain.NatureUnknown {
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return domain.NormalizeNature(e.EntryNature) == n
		})
	}

	if start, end := c.Bounds(now); start != nil || end != nil {
		preds = append(preds, func(e domain.LedgerEntry) bool {
			if start != nil && e.Date.Before(*start) {
				return false
			}
			if end != nil && e.Date.After(*end) {
				return false
			}
			return true
		})
	}

	if c.MinAmount != nil {
		minAmount := *c.MinAmount
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return e.Amount.GreaterThanOrEqual(minAmount)
		})
	}

	if c.MaxAmount != nil {
		maxAmount := *c.MaxAmount
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return e.Amount.LessThanOrEqual(maxAmount)
		})
	}

	if class, ok := domain.ParseAssetClass(c.Asset); ok {
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return domain.Classify(e).AssetClass == class
		})
	}

	preds = append(preds, kindPredicates(c)...)

	if q := strings.ToLower(strings.TrimSpace(c.Search)); q != "" {
		preds = append(preds, func(e domain.LedgerEntry) bool {
			return containsFold(e.Description, q) ||
				containsFold(e.EntryID, q) ||
				containsFold(e.ReferenceNumber, q)
		})
	}

	return preds
}

// kindPredicates builds the detail sub-filters. Each one constrains only
// entries of its own kind; entries of any other kind pass untouched.
func kindPredicates(c domain.FilterCriteria) []predicate {
	var preds []predicate

	guard := func(kind domain.EntryType, want string, field func(e domain.LedgerEntry) (string, bool)) {
		want = strings.TrimSpace(want)
		if want == "" {
			return
		}
		preds = append(preds, func(e domain.LedgerEntry) bool {
			if domain.NormalizeEntryType(e.EntryType) != kind {
				return true
			}
			got, ok := field(e)
			return ok && strings.EqualFold(strings.TrimSpace(got), want)
		})
	}

	txField := func(get func(d *domain.TransactionDetails) string) func(domain.LedgerEntry) (string, bool) {
		return func(e domain.LedgerEntry) (string, bool) {
			if e.TransactionDetails == nil {
				return "", false
			}
			return get(e.TransactionDetails), true
		}
	}
	orderField := func(get func(d *domain.OrderDetails) string) func(domain.LedgerEntry) (string, bool) {
		return func(e domain.LedgerEntry) (string, bool) {
			if e.OrderDetails == nil {
				return "", false
			}
			return get(e.OrderDetails), true
		}
	}
	positionField := func(get func(d *domain.PositionDetails) string) func(domain.LedgerEntry) (string, bool) {
		return func(e domain.LedgerEntry) (string, bool) {
			if e.PositionDetails == nil {
				return "", false
			}
			return get(e.PositionDetails), true
		}
	}

	guard(domain.EntryTypeTransaction, c.TransactionType, txField(func(d *domain.TransactionDetails) string { return d.Type }))
	guard(domain.EntryTypeTransaction, c.TransactionStatus, txField(func(d *domain.TransactionDetails) string { return d.Status }))
	guard(domain.EntryTypeOrder, c.OrderStatus, orderField(func(d *domain.OrderDetails) string { return d.Status }))
	guard(domain.EntryTypeOrder, c.OrderSymbol, orderField(func(d *domain.OrderDetails) string { return d.Symbol }))
	guard(domain.EntryTypeOrder, c.OrderSide, orderField(func(d *domain.OrderDetails) string { return d.Side }))
	guard(domain.EntryTypeLPPosition, c.PositionStatus, positionField(func(d *domain.PositionDetails) string { return d.Status }))
	guard(domain.EntryTypeLPPosition, c.PositionSymbol, positionField(func(d *domain.PositionDetails) string { return d.Symbol }))

	return preds
}

func containsFold(s, lowerQuery string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerQuery)
}
