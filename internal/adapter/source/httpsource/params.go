package httpsource

import (
	"net/url"
	"strconv"
	"time"

	"github.com/iho/lpledger/internal/usecase"
)

// LedgerParams builds the upstream query for a ledger page. Criteria fields
// map 1:1 to same-named parameters; named date buckets are resolved against
// q.Now and sent as absolute startDate/endDate.
func LedgerParams(q usecase.LedgerQuery) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	if q.SortBy != "" {
		v.Set("sortBy", string(q.SortBy))
	}
	if q.SortOrder != "" {
		v.Set("sortOrder", string(q.SortOrder))
	}

	c := q.Criteria
	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}

	start, end := c.Bounds(now)
	if start != nil {
		v.Set("startDate", start.UTC().Format(time.RFC3339))
	}
	if end != nil {
		v.Set("endDate", end.UTC().Format(time.RFC3339))
	}
	if c.MinAmount != nil {
		v.Set("minAmount", c.MinAmount.String())
	}
	if c.MaxAmount != nil {
		v.Set("maxAmount", c.MaxAmount.String())
	}

	setIf(v, "entryType", string(c.EntryType))
	setIf(v, "entryNature", string(c.EntryNature))
	setIf(v, "asset", c.Asset)
	setIf(v, "search", c.Search)
	setIf(v, "transactionType", c.TransactionType)
	setIf(v, "transactionStatus", c.TransactionStatus)
	setIf(v, "orderStatus", c.OrderStatus)
	setIf(v, "orderSymbol", c.OrderSymbol)
	setIf(v, "orderSide", c.OrderSide)
	setIf(v, "positionStatus", c.PositionStatus)
	setIf(v, "positionSymbol", c.PositionSymbol)

	return v
}

// TransactionParams builds the upstream query for a fund transaction page.
func TransactionParams(q usecase.TransactionQuery) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	setIf(v, "type", string(q.Type))
	setIf(v, "asset", string(q.Asset))
	setIf(v, "status", string(q.Status))
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
