package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/lpledger/internal/domain"
)

var filterNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func sampleEntries() []domain.LedgerEntry {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 10, 0, 0, 0, time.UTC) }

	deposit := at(fiatEntry("TX-001", domain.NatureCredit, "500"), day(15))
	deposit.Description = "Cash deposit"
	deposit.ReferenceNumber = "REF-AAA"

	withdrawal := at(fiatEntry("TX-002", domain.NatureDebit, "120"), day(14))
	withdrawal.Description = "Cash withdrawal"
	withdrawal.TransactionDetails.Type = "WITHDRAWAL"

	gold := at(metalEntry("TX-003", domain.NatureCredit, "2.500"), day(10))
	gold.Description = "Gold deposit"

	openOrder := at(orderEntry("OR-001", "OPEN", "XAUUSD", "15"), day(13))
	openOrder.Description = "Buy XAUUSD"

	closedOrder := at(orderEntry("OR-002", "CLOSED", "XAGUSD", "-4"), day(1))
	closedOrder.Description = "Sell XAGUSD"

	position := at(positionEntry("LP-001", "OPEN"), day(15))
	position.Description = "LP hedge"
	position.ReferenceNumber = "hedge-77"

	return []domain.LedgerEntry{deposit, withdrawal, gold, openOrder, closedOrder, position}
}

func ids(entries []domain.LedgerEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID()
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		criteria domain.FilterCriteria
		want     []string
	}{
		{
			name:     "no criteria keeps everything in order",
			criteria: domain.FilterCriteria{},
			want:     []string{"TX-001", "TX-002", "TX-003", "OR-001", "OR-002", "LP-001"},
		},
		{
			name:     "entry type",
			criteria: domain.FilterCriteria{EntryType: domain.EntryTypeOrder},
			want:     []string{"OR-001", "OR-002"},
		},
		{
			name:     "nature",
			criteria: domain.FilterCriteria{EntryNature: domain.NatureDebit},
			want:     []string{"TX-002", "LP-001"},
		},
		{
			name:     "today bucket",
			criteria: domain.FilterCriteria{DateRange: domain.DateRangeToday},
			want:     []string{"TX-001", "LP-001"},
		},
		{
			name:     "yesterday bucket",
			criteria: domain.FilterCriteria{DateRange: domain.DateRangeYesterday},
			want:     []string{"TX-002"},
		},
		{
			name:     "week bucket",
			criteria: domain.FilterCriteria{DateRange: domain.DateRangeWeek},
			want:     []string{"TX-001", "TX-002", "TX-003", "OR-001", "LP-001"},
		},
		{
			name:     "custom range is inclusive",
			criteria: domain.FilterCriteria{DateRange: domain.DateRangeCustom, StartDate: &start, EndDate: &end},
			want:     []string{"TX-003", "OR-001"},
		},
		{
			name:     "amount range inclusive",
			criteria: domain.FilterCriteria{MinAmount: decPtr("10"), MaxAmount: decPtr("120")},
			want:     []string{"TX-002", "OR-001", "OR-002"},
		},
		{
			name:     "metal asset",
			criteria: domain.FilterCriteria{Asset: "GOLD"},
			want:     []string{"TX-003"},
		},
		{
			name:     "fiat asset",
			criteria: domain.FilterCriteria{Asset: "AED"},
			want:     []string{"TX-001", "TX-002", "OR-001", "OR-002", "LP-001"},
		},
		{
			name:     "unknown asset is ignored",
			criteria: domain.FilterCriteria{Asset: "BTC"},
			want:     []string{"TX-001", "TX-002", "TX-003", "OR-001", "OR-002", "LP-001"},
		},
		{
			name:     "search description case-insensitive",
			criteria: domain.FilterCriteria{Search: "DEPOSIT"},
			want:     []string{"TX-001", "TX-003"},
		},
		{
			name:     "search reference",
			criteria: domain.FilterCriteria{Search: "HEDGE-77"},
			want:     []string{"LP-001"},
		},
		{
			name:     "search entry id",
			criteria: domain.FilterCriteria{Search: "or-00"},
			want:     []string{"OR-001", "OR-002"},
		},
		{
			name:     "order status only constrains orders",
			criteria: domain.FilterCriteria{OrderStatus: "open"},
			want:     []string{"TX-001", "TX-002", "TX-003", "OR-001", "LP-001"},
		},
		{
			name:     "order status combined with type",
			criteria: domain.FilterCriteria{EntryType: domain.EntryTypeOrder, OrderStatus: "CLOSED"},
			want:     []string{"OR-002"},
		},
		{
			name:     "transaction type only constrains transactions",
			criteria: domain.FilterCriteria{TransactionType: "WITHDRAWAL"},
			want:     []string{"TX-002", "OR-001", "OR-002", "LP-001"},
		},
		{
			name:     "position status only constrains positions",
			criteria: domain.FilterCriteria{PositionStatus: "CLOSED"},
			want:     []string{"TX-001", "TX-002", "TX-003", "OR-001", "OR-002"},
		},
		{
			name:     "order symbol",
			criteria: domain.FilterCriteria{EntryType: domain.EntryTypeOrder, OrderSymbol: "xagusd"},
			want:     []string{"OR-002"},
		},
		{
			name: "combined predicates are ANDed",
			criteria: domain.FilterCriteria{
				EntryNature: domain.NatureCredit,
				DateRange:   domain.DateRangeWeek,
				Asset:       "AED",
			},
			want: []string{"TX-001", "OR-001"},
		},
		{
			name:     "empty result is not an error",
			criteria: domain.FilterCriteria{Search: "nothing matches this"},
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilters(sampleEntries(), tt.criteria, filterNow)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestApplyFilters_Idempotent(t *testing.T) {
	criteria := []domain.FilterCriteria{
		{},
		{DateRange: domain.DateRangeWeek, EntryNature: domain.NatureCredit},
		{Search: "xau", OrderStatus: "OPEN"},
		{MinAmount: decPtr("5"), Asset: "fiat"},
	}

	for _, c := range criteria {
		once := ApplyFilters(sampleEntries(), c, filterNow)
		twice := ApplyFilters(once, c, filterNow)
		assert.Equal(t, ids(once), ids(twice))
	}
}

func TestApplyFilters_DoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	before := ids(entries)

	_ = ApplyFilters(entries, domain.FilterCriteria{EntryType: domain.EntryTypeOrder}, filterNow)

	assert.Equal(t, before, ids(entries))
}

func TestMatches(t *testing.T) {
	e := sampleEntries()[0]
	assert.True(t, Matches(e, domain.FilterCriteria{Search: "cash"}, filterNow))
	assert.False(t, Matches(e, domain.FilterCriteria{EntryNature: domain.NatureDebit}, filterNow))
}

func TestSortEntries(t *testing.T) {
	entries := sampleEntries()

	byDateAsc := SortEntries(entries, SortByDate, SortAsc)
	assert.Equal(t, []string{"OR-002", "TX-003", "OR-001", "TX-002", "TX-001", "LP-001"}, ids(byDateAsc))

	byAmountDesc := SortEntries(entries, SortByAmount, SortDesc)
	assert.Equal(t, "TX-001", byAmountDesc[0].ID())
	assert.Equal(t, "TX-003", byAmountDesc[len(byAmountDesc)-1].ID())

	assert.Equal(t, []string{"TX-001", "TX-002", "TX-003", "OR-001", "OR-002", "LP-001"}, ids(entries), "input must be untouched")
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortByAmount, ParseSortField("AMOUNT"))
	assert.Equal(t, SortByDate, ParseSortField("bogus"))
	assert.Equal(t, SortAsc, ParseSortOrder("ASC"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
}
