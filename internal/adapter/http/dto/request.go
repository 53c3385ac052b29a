package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

// CriteriaFromQuery reads filter criteria from query parameters. Unknown or
// unparseable values mean "no constraint". Explicit startDate/endDate
// without a dateRange select the custom range.
func CriteriaFromQuery(q url.Values) domain.FilterCriteria {
	c := domain.FilterCriteria{
		StartDate:         domain.ParseDate(q.Get("startDate")),
		EndDate:           domain.ParseDate(q.Get("endDate")),
		MinAmount:         domain.ParseAmount(q.Get("minAmount")),
		MaxAmount:         domain.ParseAmount(q.Get("maxAmount")),
		EntryType:         domain.NormalizeEntryType(domain.EntryType(q.Get("entryType"))),
		EntryNature:       domain.NormalizeNature(domain.EntryNature(q.Get("entryNature"))),
		DateRange:         domain.ParseDateRange(q.Get("dateRange")),
		Asset:             strings.TrimSpace(q.Get("asset")),
		Search:            strings.TrimSpace(q.Get("search")),
		TransactionType:   strings.TrimSpace(q.Get("transactionType")),
		TransactionStatus: strings.TrimSpace(q.Get("transactionStatus")),
		OrderStatus:       strings.TrimSpace(q.Get("orderStatus")),
		OrderSymbol:       strings.TrimSpace(q.Get("orderSymbol")),
		OrderSide:         strings.TrimSpace(q.Get("orderSide")),
		PositionStatus:    strings.TrimSpace(q.Get("positionStatus")),
		PositionSymbol:    strings.TrimSpace(q.Get("positionSymbol")),
	}

	if c.DateRange == domain.DateRangeAll && (c.StartDate != nil || c.EndDate != nil) {
		c.DateRange = domain.DateRangeCustom
	}

	return c
}

// ReportInputFromQuery builds a report selection for accountID from query
// parameters.
func ReportInputFromQuery(accountID string, q url.Values, defaultPageSize int) usecase.ReportInput {
	return usecase.ReportInput{
		AccountID: accountID,
		Criteria:  CriteriaFromQuery(q),
		SortBy:    reporting.ParseSortField(q.Get("sortBy")),
		SortOrder: reporting.ParseSortOrder(q.Get("sortOrder")),
		Page:      ParseIntParam(q, "page", 1),
		PageSize:  ParseIntParam(q, "pageSize", ParseIntParam(q, "limit", defaultPageSize)),
		ViewID:    strings.TrimSpace(q.Get("viewId")),
	}
}

// TransactionQueryFromQuery builds a fund transaction query from query
// parameters.
func TransactionQueryFromQuery(accountID string, q url.Values, defaultPageSize int) (usecase.TransactionQuery, error) {
	tq := usecase.TransactionQuery{
		AccountID: accountID,
		Page:      ParseIntParam(q, "page", 1),
		Limit:     ParseIntParam(q, "limit", defaultPageSize),
		Type:      domain.TransactionType(strings.ToUpper(strings.TrimSpace(q.Get("type")))),
		Status:    domain.TransactionStatus(strings.ToUpper(strings.TrimSpace(q.Get("status")))),
	}

	if raw := q.Get("asset"); raw != "" {
		asset, err := domain.ParseAsset(raw)
		if err != nil {
			return usecase.TransactionQuery{}, err
		}
		tq.Asset = asset
	}

	return tq, nil
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(q url.Values, key string, defaultValue int) int {
	val := q.Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// SubmitFundsRequest is the body of a deposit or withdrawal submission.
type SubmitFundsRequest struct {
	Type   string          `json:"type"`
	Asset  string          `json:"asset"`
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitFundsRequest) ToUseCaseInput(accountID, idempotencyKey string) usecase.SubmitFundsInput {
	return usecase.SubmitFundsInput{
		AccountID:      accountID,
		Type:           domain.TransactionType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Asset:          domain.Asset(strings.ToUpper(strings.TrimSpace(r.Asset))),
		Amount:         r.Amount,
		IdempotencyKey: idempotencyKey,
	}
}
