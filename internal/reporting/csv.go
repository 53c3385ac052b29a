package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// CSVContentType is the media type of CSV exports.
const CSVContentType = "text/csv; charset=utf-8"

// CSVFileName returns the export file name for the given date.
func CSVFileName(at time.Time) string {
	return fmt.Sprintf("Ledger_Export_%s.csv", at.UTC().Format("2006-01-02"))
}

// WriteCSV writes the header and one record per projected row.
func WriteCSV(w io.Writer, p Projection) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range p.Rows {
		if err := cw.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", row.EntryID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
