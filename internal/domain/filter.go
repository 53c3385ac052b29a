package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is a named date bucket or "custom".
type DateRange string

const (
	DateRangeAll       DateRange = ""
	DateRangeToday     DateRange = "today"
	DateRangeYesterday DateRange = "yesterday"
	DateRangeWeek      DateRange = "week"
	DateRangeMonth     DateRange = "month"
	DateRangeCustom    DateRange = "custom"
)

// ParseDateRange parses a date bucket name. Unknown names yield DateRangeAll.
func ParseDateRange(s string) DateRange {
	switch r := DateRange(strings.ToLower(strings.TrimSpace(s))); r {
	case DateRangeToday, DateRangeYesterday, DateRangeWeek, DateRangeMonth, DateRangeCustom:
		return r
	default:
		return DateRangeAll
	}
}

// FilterCriteria is the caller-owned query state. Every zero-valued field
// means "no constraint".
type FilterCriteria struct {
	StartDate         *time.Time
	EndDate           *time.Time
	MinAmount         *decimal.Decimal
	MaxAmount         *decimal.Decimal
	EntryType         EntryType
	EntryNature       EntryNature
	DateRange         DateRange
	Asset             string
	Search            string
	TransactionType   string
	TransactionStatus string
	OrderStatus       string
	OrderSymbol       string
	OrderSide         string
	PositionStatus    string
	PositionSymbol    string
}

// IsEmpty reports whether no constraint is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.EntryType == "" &&
		c.EntryNature == "" &&
		c.DateRange == DateRangeAll &&
		c.MinAmount == nil &&
		c.MaxAmount == nil &&
		strings.TrimSpace(c.Asset) == "" &&
		strings.TrimSpace(c.Search) == "" &&
		c.TransactionType == "" &&
		c.TransactionStatus == "" &&
		c.OrderStatus == "" &&
		c.OrderSymbol == "" &&
		c.OrderSide == "" &&
		c.PositionStatus == "" &&
		c.PositionSymbol == ""
}

// Bounds resolves the date constraint into an inclusive [start, end]
// interval relative to now. Either bound may be nil.
func (c FilterCriteria) Bounds(now time.Time) (start, end *time.Time) {
	today := startOfDay(now)

	span := func(from, to time.Time) (*time.Time, *time.Time) {
		s, e := startOfDay(from), endOfDay(to)
		return &s, &e
	}

	switch c.DateRange {
	case DateRangeToday:
		return span(today, today)
	case DateRangeYesterday:
		y := today.AddDate(0, 0, -1)
		return span(y, y)
	case DateRangeWeek:
		return span(today.AddDate(0, 0, -6), today)
	case DateRangeMonth:
		return span(today.AddDate(0, 0, -29), today)
	case DateRangeCustom:
		if c.StartDate != nil {
			s := startOfDay(*c.StartDate)
			start = &s
		}
		if c.EndDate != nil {
			e := endOfDay(*c.EndDate)
			end = &e
		}
		return start, end
	default:
		return nil, nil
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
