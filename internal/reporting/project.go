package reporting

import (
	"github.com/shopspring/decimal"

	"github.com/iho/lpledger/internal/domain"
)

// ExportRow is the flat, display-formatted projection of one entry.
type ExportRow struct {
	EntryID        string
	User           string
	Description    string
	Reference      string
	Type           string
	Asset          string
	Nature         string
	Debit          string
	Credit         string
	RunningBalance string
	Date           string
}

// ExportHeader lists the ExportRow field names in column order.
var ExportHeader = []string{
	"EntryID",
	"User",
	"Description",
	"Reference",
	"Type",
	"Asset",
	"Nature",
	"Debit",
	"Credit",
	"RunningBalance",
	"Date",
}

// Record returns the row as CSV fields in ExportHeader order.
func (r ExportRow) Record() []string {
	return []string{
		r.EntryID,
		r.User,
		r.Description,
		r.Reference,
		r.Type,
		r.Asset,
		r.Nature,
		r.Debit,
		r.Credit,
		r.RunningBalance,
		r.Date,
	}
}

// SummaryRow is one asset class line of the report summary.
type SummaryRow struct {
	Asset  string
	Debit  string
	Credit string
	Net    string
	Count  int
}

// Projection is the export-ready view of a filtered entry set.
type Projection struct {
	Rows    []ExportRow
	Summary []SummaryRow
	Totals  LedgerTotals
}

// Project maps entries to export rows and totals to summary rows. One row
// is produced per entry, in input order.
func Project(entries []domain.LedgerEntry, totals LedgerTotals) Projection {
	rows := make([]ExportRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, projectEntry(e))
	}

	return Projection{
		Rows: rows,
		Summary: []SummaryRow{
			summaryRow(domain.AssetClassFiat, totals.Fiat),
			summaryRow(domain.AssetClassMetal, totals.Metal),
		},
		Totals: totals,
	}
}

func projectEntry(e domain.LedgerEntry) ExportRow {
	c := domain.Classify(e)

	debit, credit := decimal.Zero, decimal.Zero
	switch c.Nature {
	case domain.NatureDebit:
		debit = e.Amount
	case domain.NatureCredit:
		credit = e.Amount
	}

	nature := string(c.Nature)
	if nature == "" {
		nature = "N/A"
	}

	return ExportRow{
		EntryID:        e.ID(),
		User:           e.UserLabel(),
		Description:    e.Description,
		Reference:      e.Reference(),
		Type:           string(c.Kind),
		Asset:          c.AssetClass.Label(),
		Nature:         nature,
		Debit:          FormatAmount(c.AssetClass, debit),
		Credit:         FormatAmount(c.AssetClass, credit),
		RunningBalance: FormatAmount(c.AssetClass, e.RunningBalance),
		Date:           FormatDate(e.Date),
	}
}

func summaryRow(class domain.AssetClass, t AggregateTotals) SummaryRow {
	return SummaryRow{
		Asset:  class.Label(),
		Debit:  FormatAmount(class, t.TotalDebit),
		Credit: FormatAmount(class, t.TotalCredit),
		Net:    FormatAmount(class, t.NetBalance),
		Count:  t.Count,
	}
}
