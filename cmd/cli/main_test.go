package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

type stubReports struct {
	lastReport usecase.ReportInput
	lastExport usecase.ExportInput
}

func (s *stubReports) BuildReport(_ context.Context, input usecase.ReportInput) (*usecase.Report, error) {
	s.lastReport = input
	return &usecase.Report{
		AccountID: input.AccountID,
		Entries:   reporting.Page[domain.LedgerEntry]{TotalItems: 3},
		Totals: reporting.LedgerTotals{
			Fiat: reporting.AggregateTotals{
				TotalDebit:  decimal.NewFromInt(100),
				TotalCredit: decimal.NewFromInt(1500),
				NetBalance:  decimal.NewFromInt(1400),
				Count:       2,
			},
			Metal: reporting.AggregateTotals{
				TotalCredit: decimal.RequireFromString("1.5"),
				NetBalance:  decimal.RequireFromString("1.5"),
				Count:       1,
			},
		},
		Profit: reporting.ProfitSummary{Count: 2, ProfitableCount: 1, NetProfit: decimal.NewFromInt(7), ProfitablePercentage: decimal.NewFromInt(50)},
	}, nil
}

func (s *stubReports) Export(_ context.Context, input usecase.ExportInput) (*usecase.ExportResult, error) {
	s.lastExport = input
	return &usecase.ExportResult{ID: "01EXP", FileName: "Ledger_Export_2024-06-15.csv", Body: []byte("a,b\n"), Rows: 1}, nil
}

type stubFunds struct {
	last usecase.SubmitFundsInput
	err  error
}

func (s *stubFunds) SubmitOnce(_ context.Context, input usecase.SubmitFundsInput) (*usecase.SubmitFundsResult, error) {
	s.last = input
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.SubmitFundsResult{
		IdempotencyKey: input.IdempotencyKey,
		Message:        "Withdrawal request submitted",
		Asset:          input.Asset,
		Effective:      decimal.NewFromInt(90),
	}, nil
}

type fixedKey string

func (k fixedKey) Generate() string { return string(k) }

func execute(t *testing.T, svc *services, args ...string) (string, error) {
	t.Helper()

	closed := false
	svc.close = func() { closed = true }

	cmd := newRootCmd(func(context.Context) (*services, error) { return svc, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		assert.True(t, closed, "services should be closed after the command")
	}
	return out.String(), err
}

func TestSummaryCmd(t *testing.T) {
	reports := &stubReports{}
	out, err := execute(t, &services{reports: reports}, "summary", "--account", "acc-1", "--type", "order", "--date-range", "week")
	require.NoError(t, err)

	assert.Equal(t, "acc-1", reports.lastReport.AccountID)
	assert.Equal(t, domain.EntryTypeOrder, reports.lastReport.Criteria.EntryType)
	assert.Equal(t, domain.DateRangeWeek, reports.lastReport.Criteria.DateRange)

	assert.Contains(t, out, "Entries: 3")
	assert.Contains(t, out, "AED 1,400.00")
	assert.Contains(t, out, "1.500 g")
	assert.Contains(t, out, "Trades: 2 (1 profitable, 50.00%)")
}

func TestSummaryCmd_RequiresAccount(t *testing.T) {
	_, err := execute(t, &services{reports: &stubReports{}}, "summary")
	assert.Error(t, err)
}

func TestExportCmd(t *testing.T) {
	reports := &stubReports{}
	path := filepath.Join(t.TempDir(), "out.csv")

	out, err := execute(t, &services{reports: reports}, "export", "--account", "acc-1", "--format", "CSV", "--out", path, "--asset", "gold")
	require.NoError(t, err)

	assert.Equal(t, usecase.ExportCSV, reports.lastExport.Format)
	assert.Equal(t, "gold", reports.lastExport.Criteria.Asset)
	assert.Contains(t, out, "Wrote 1 entries to "+path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(body))
}

func TestExportCmd_UnsupportedFormat(t *testing.T) {
	_, err := execute(t, &services{reports: &stubReports{}}, "export", "--account", "acc-1", "--format", "pdf")
	assert.ErrorIs(t, err, usecase.ErrUnsupportedFormat)
}

func TestWithdrawCmd(t *testing.T) {
	funds := &stubFunds{}
	out, err := execute(t, &services{funds: funds, keys: fixedKey("generated-key")},
		"withdraw", "--account", "acc-1", "--asset", "cash", "--amount", "10.50")
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionWithdrawal, funds.last.Type)
	assert.Equal(t, domain.AssetCash, funds.last.Asset)
	assert.True(t, funds.last.Amount.Equal(decimal.RequireFromString("10.5")))
	assert.Equal(t, "generated-key", funds.last.IdempotencyKey)
	assert.True(t, strings.HasPrefix(out, "Withdrawal request submitted\n"))
	assert.Contains(t, out, "CASH balance: 90")
}

func TestDepositCmd_ExplicitKeyAndErrors(t *testing.T) {
	funds := &stubFunds{err: domain.ErrSourceUnavailable}
	_, err := execute(t, &services{funds: funds, keys: fixedKey("unused")},
		"deposit", "--account", "acc-1", "--asset", "gold", "--amount", "2", "--idempotency-key", "mine")

	assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	assert.Equal(t, domain.TransactionDeposit, funds.last.Type)
	assert.Equal(t, "mine", funds.last.IdempotencyKey)
}

func TestDepositCmd_InvalidInput(t *testing.T) {
	funds := &stubFunds{}

	_, err := execute(t, &services{funds: funds}, "deposit", "--account", "acc-1", "--asset", "btc", "--amount", "2")
	assert.ErrorIs(t, err, domain.ErrInvalidAsset)

	_, err = execute(t, &services{funds: funds}, "deposit", "--account", "acc-1", "--asset", "gold", "--amount", "lots")
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestConnectError(t *testing.T) {
	cmd := newRootCmd(func(context.Context) (*services, error) { return nil, errors.New("no source") })
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"summary", "--account", "acc-1"})

	assert.EqualError(t, cmd.Execute(), "no source")
}
