package reporting

import (
	"fmt"
	"html/template"
	"io"
	"time"
)

// HTMLContentType is the media type of the print report.
const HTMLContentType = "text/html; charset=utf-8"

// HTMLFileName returns the report file name for the given date.
func HTMLFileName(at time.Time) string {
	return fmt.Sprintf("Ledger_Report_%s.html", at.UTC().Format("2006-01-02"))
}

// ReportMeta is the header information of the print report.
type ReportMeta struct {
	GeneratedAt time.Time
	Title       string
	AccountID   string
}

type reportView struct {
	Projection
	Title       string
	AccountID   string
	GeneratedOn string
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="font-family: Arial, Helvetica, sans-serif; font-size: 12px; color: #222; margin: 24px;">
<h1 style="font-size: 20px; margin: 0 0 4px 0;">{{.Title}}</h1>
{{- if .AccountID}}
<p style="margin: 0 0 4px 0;">Account: {{.AccountID}}</p>
{{- end}}
<p style="margin: 0 0 16px 0; color: #666;">Generated on {{.GeneratedOn}}</p>
<h2 style="font-size: 15px; margin: 0 0 8px 0;">Summary</h2>
<table style="border-collapse: collapse; margin-bottom: 24px;">
<thead>
<tr>
<th style="border: 1px solid #999; padding: 4px 8px; background: #eee; text-align: left;">Asset</th>
<th style="border: 1px solid #999; padding: 4px 8px; background: #eee; text-align: right;">Entries</th>
<th style="border: 1px solid #999; padding: 4px 8px; background: #eee; text-align: right;">Total Debit</th>
<th style="border: 1px solid #999; padding: 4px 8px; background: #eee; text-align: right;">Total Credit</th>
<th style="border: 1px solid #999; padding: 4px 8px; background: #eee; text-align: right;">Net Balance</th>
</tr>
</thead>
<tbody>
{{- range .Summary}}
<tr>
<td style="border: 1px solid #999; padding: 4px 8px;">{{.Asset}}</td>
<td style="border: 1px solid #999; padding: 4px 8px; text-align: right;">{{.Count}}</td>
<td style="border: 1px solid #999; padding: 4px 8px; text-align: right;">{{.Debit}}</td>
<td style="border: 1px solid #999; padding: 4px 8px; text-align: right;">{{.Credit}}</td>
<td style="border: 1px solid #999; padding: 4px 8px; text-align: right;">{{.Net}}</td>
</tr>
{{- end}}
</tbody>
</table>
<h2 style="font-size: 15px; margin: 0 0 8px 0;">Entries</h2>
<table style="border-collapse: collapse; width: 100%;">
<thead>
<tr>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Entry ID</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">User</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Description</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Reference</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Type</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Asset</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Nature</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Debit</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Credit</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Running Balance</th>
<th style="border: 1px solid #999; padding: 4px; background: #eee;">Date</th>
</tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td style="border: 1px solid #999; padding: 4px;">{{.EntryID}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.User}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Description}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Reference}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Type}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Asset}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Nature}}</td>
<td style="border: 1px solid #999; padding: 4px; text-align: right;">{{.Debit}}</td>
<td style="border: 1px solid #999; padding: 4px; text-align: right;">{{.Credit}}</td>
<td style="border: 1px solid #999; padding: 4px; text-align: right;">{{.RunningBalance}}</td>
<td style="border: 1px solid #999; padding: 4px;">{{.Date}}</td>
</tr>
{{- else}}
<tr><td colspan="11" style="border: 1px solid #999; padding: 8px; text-align: center;">No entries</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

// WriteHTML renders the self-contained print report. The "Generated on"
// line is the only content that depends on meta.GeneratedAt.
func WriteHTML(w io.Writer, p Projection, meta ReportMeta) error {
	title := meta.Title
	if title == "" {
		title = "Ledger Report"
	}

	view := reportView{
		Projection:  p,
		Title:       title,
		AccountID:   meta.AccountID,
		GeneratedOn: meta.GeneratedAt.UTC().Format(time.RFC1123),
	}

	if err := reportTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}
