package postgres

import (
	"strconv"
	"strings"
	"time"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

var ledgerSortColumns = map[reporting.SortField]string{
	reporting.SortByDate:           "created_at",
	reporting.SortByAmount:         "amount",
	reporting.SortByRunningBalance: "running_balance",
	reporting.SortByType:           "entry_type",
}

const metalAssetExpr = "upper(coalesce(details->'transactionDetails'->>'asset', ''))"

// whereBuilder accumulates AND-ed conditions with positional arguments.
// Each "?" in a condition is replaced by the next argument placeholder.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) add(cond string, args ...any) {
	for _, arg := range args {
		b.args = append(b.args, arg)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(b.args)), 1)
	}
	b.conds = append(b.conds, cond)
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// ledgerWhere translates the account and the criteria that map exactly to
// columns. Detail sub-filters are left to the caller.
func ledgerWhere(q usecase.LedgerQuery) *whereBuilder {
	b := &whereBuilder{}
	b.add("account_id = ?", q.AccountID)

	c := q.Criteria
	if t := domain.NormalizeEntryType(c.EntryType); t != "" {
		b.add("upper(entry_type) = ?", string(t))
	}
	if n := domain.NormalizeNature(c.EntryNature); n != domain.NatureUnknown {
		b.add("upper(entry_nature) = ?", string(n))
	}

	now := q.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, end := c.Bounds(now)
	if start != nil {
		b.add("created_at >= ?", *start)
	}
	if end != nil {
		b.add("created_at <= ?", *end)
	}

	if c.MinAmount != nil {
		b.add("amount >= ?::numeric", c.MinAmount.String())
	}
	if c.MaxAmount != nil {
		b.add("amount <= ?::numeric", c.MaxAmount.String())
	}

	if class, ok := domain.ParseAssetClass(c.Asset); ok {
		if class == domain.AssetClassMetal {
			b.add(metalAssetExpr+" = ?", domain.MetalCode)
		} else {
			b.add(metalAssetExpr+" <> ?", domain.MetalCode)
		}
	}

	if s := strings.TrimSpace(c.Search); s != "" {
		b.add("(entry_id ILIKE ? OR description ILIKE ? OR reference_number ILIKE ?)",
			likePattern(s), likePattern(s), likePattern(s))
	}

	return b
}

// pagedQuery is a page query plus the count query over the same rows.
type pagedQuery struct {
	pageSQL   string
	pageArgs  []any
	limit     int
	countSQL  string
	countArgs []any
}

// buildLedgerQuery builds the ledger page and count queries.
func buildLedgerQuery(q usecase.LedgerQuery) pagedQuery {
	where := ledgerWhere(q)

	column, ok := ledgerSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if q.SortOrder == reporting.SortAsc {
		direction = "ASC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = usecase.FetchPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	return pagedQuery{
		pageSQL: "SELECT entry_id, entry_type, entry_nature, reference_number, description, user_label, " +
			"amount::text, running_balance::text, details, created_at FROM ledger_entries" +
			where.sql() +
			" ORDER BY " + column + " " + direction + ", id " + direction +
			limitOffset(len(where.args)),
		pageArgs:  append(append([]any{}, where.args...), limit, (page-1)*limit),
		limit:     limit,
		countSQL:  "SELECT count(*) FROM ledger_entries" + where.sql(),
		countArgs: where.args,
	}
}

// buildTransactionQuery builds the fund transaction page and count queries.
func buildTransactionQuery(q usecase.TransactionQuery) pagedQuery {
	where := &whereBuilder{}
	where.add("account_id = ?", q.AccountID)
	if q.Type != "" {
		where.add("type = ?", string(q.Type))
	}
	if q.Asset != "" {
		where.add("asset = ?", string(q.Asset))
	}
	if q.Status != "" {
		where.add("status = ?", string(q.Status))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	return pagedQuery{
		pageSQL: "SELECT transaction_id, type, asset, status, amount::text, new_balance::text, created_at " +
			"FROM fund_transactions" + where.sql() +
			" ORDER BY created_at DESC, transaction_id DESC" +
			limitOffset(len(where.args)),
		pageArgs:  append(append([]any{}, where.args...), limit, (page-1)*limit),
		limit:     limit,
		countSQL:  "SELECT count(*) FROM fund_transactions" + where.sql(),
		countArgs: where.args,
	}
}

func limitOffset(argc int) string {
	return " LIMIT $" + strconv.Itoa(argc+1) + " OFFSET $" + strconv.Itoa(argc+2)
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

func pageCount(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
