package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/lpledger/internal/adapter/http/dto"
	"github.com/iho/lpledger/internal/domain"
	"github.com/iho/lpledger/internal/reporting"
	"github.com/iho/lpledger/internal/usecase"
)

type reportService interface {
	BuildReport(ctx context.Context, input usecase.ReportInput) (*usecase.Report, error)
	Export(ctx context.Context, input usecase.ExportInput) (*usecase.ExportResult, error)
}

type fundsService interface {
	SubmitOnce(ctx context.Context, input usecase.SubmitFundsInput) (*usecase.SubmitFundsResult, error)
}

type services struct {
	reports reportService
	funds   fundsService
	keys    usecase.IDGenerator
	close   func()
}

type connectFunc func(ctx context.Context) (*services, error)

// filterFlags are the report selection flags shared by summary and export.
type filterFlags struct {
	dateRange string
	start     string
	end       string
	entryType string
	nature    string
	asset     string
	search    string
	minAmount string
	maxAmount string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dateRange, "date-range", "", "today, yesterday, week, month or custom")
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVar(&f.entryType, "type", "", "Entry type (TRANSACTION, ORDER, LP_POSITION)")
	cmd.Flags().StringVar(&f.nature, "nature", "", "Entry nature (DEBIT, CREDIT)")
	cmd.Flags().StringVar(&f.asset, "asset", "", "Asset class (AED, GOLD)")
	cmd.Flags().StringVar(&f.search, "search", "", "Free-text search")
	cmd.Flags().StringVar(&f.minAmount, "min-amount", "", "Minimum amount")
	cmd.Flags().StringVar(&f.maxAmount, "max-amount", "", "Maximum amount")
}

func (f *filterFlags) criteria() domain.FilterCriteria {
	return dto.CriteriaFromQuery(url.Values{
		"dateRange":   {f.dateRange},
		"startDate":   {f.start},
		"endDate":     {f.end},
		"entryType":   {f.entryType},
		"entryNature": {f.nature},
		"asset":       {f.asset},
		"search":      {f.search},
		"minAmount":   {f.minAmount},
		"maxAmount":   {f.maxAmount},
	})
}

func newRootCmd(connect connectFunc) *cobra.Command {
	var (
		accountID string
		timeout   time.Duration
	)

	rootCmd := &cobra.Command{
		Use:           "lpledger",
		Short:         "LP ledger reporting CLI",
		Long:          `A command line interface for ledger summaries, exports and fund requests.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&accountID, "account", "", "Account ID")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", time.Minute, "Command timeout")
	_ = rootCmd.MarkPersistentFlagRequired("account")

	// withServices runs fn with connected services and a bounded context.
	withServices := func(cmd *cobra.Command, fn func(ctx context.Context, svc *services) error) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		svc, err := connect(ctx)
		if err != nil {
			return err
		}
		if svc.close != nil {
			defer svc.close()
		}
		return fn(ctx, svc)
	}

	rootCmd.AddCommand(
		summaryCmd(&accountID, withServices),
		exportCmd(&accountID, withServices),
		fundsCmd(domain.TransactionDeposit, &accountID, withServices),
		fundsCmd(domain.TransactionWithdrawal, &accountID, withServices),
	)

	return rootCmd
}

type runner func(cmd *cobra.Command, fn func(ctx context.Context, svc *services) error) error

func summaryCmd(accountID *string, run runner) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print ledger totals and trade statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, svc *services) error {
				report, err := svc.reports.BuildReport(ctx, usecase.ReportInput{
					AccountID: *accountID,
					Criteria:  filters.criteria(),
					Page:      1,
					PageSize:  1,
				})
				if err != nil {
					return err
				}
				printSummary(cmd.OutOrStdout(), report)
				return nil
			})
		},
	}
	filters.register(cmd)

	return cmd
}

func exportCmd(accountID *string, run runner) *cobra.Command {
	var (
		filters filterFlags
		format  string
		out     string
		title   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the selected entries as CSV or HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := usecase.ParseExportFormat(format)
			if err != nil {
				return err
			}

			return run(cmd, func(ctx context.Context, svc *services) error {
				result, err := svc.reports.Export(ctx, usecase.ExportInput{
					ReportInput: usecase.ReportInput{AccountID: *accountID, Criteria: filters.criteria()},
					Format:      exportFormat,
					Title:       title,
				})
				if err != nil {
					return err
				}

				path := out
				if path == "" {
					path = result.FileName
				}
				if err := os.WriteFile(path, result.Body, 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s (export %s)\n", result.Rows, path, result.ID)
				return nil
			})
		},
	}
	filters.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "Export format (csv, html)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (defaults to the generated file name)")
	cmd.Flags().StringVar(&title, "title", "", "Report title (html only)")

	return cmd
}

func fundsCmd(txType domain.TransactionType, accountID *string, run runner) *cobra.Command {
	var (
		asset  string
		amount string
		key    string
	)

	name := "deposit"
	if txType == domain.TransactionWithdrawal {
		name = "withdraw"
	}

	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Submit a %s request", strings.ToLower(string(txType))),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedAsset, err := domain.ParseAsset(asset)
			if err != nil {
				return err
			}
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("%w: %q", domain.ErrInvalidAmount, amount)
			}

			return run(cmd, func(ctx context.Context, svc *services) error {
				idempotencyKey := key
				if idempotencyKey == "" && svc.keys != nil {
					idempotencyKey = svc.keys.Generate()
				}

				result, err := svc.funds.SubmitOnce(ctx, usecase.SubmitFundsInput{
					AccountID:      *accountID,
					Type:           txType,
					Asset:          parsedAsset,
					Amount:         value,
					IdempotencyKey: idempotencyKey,
				})
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintln(w, result.Message)
				fmt.Fprintf(w, "Idempotency key: %s\n", result.IdempotencyKey)
				fmt.Fprintf(w, "%s balance: %s\n", result.Asset, result.Effective.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&asset, "asset", "", "Asset (CASH, GOLD)")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount")
	cmd.Flags().StringVar(&key, "idempotency-key", "", "Idempotency key (generated when empty)")
	_ = cmd.MarkFlagRequired("asset")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func printSummary(out io.Writer, r *usecase.Report) {
	fmt.Fprintf(out, "Account: %s\n", r.AccountID)
	fmt.Fprintf(out, "Entries: %d\n\n", r.Entries.TotalItems)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ASSET\tDEBIT\tCREDIT\tNET\tCOUNT")
	for _, row := range reporting.Project(nil, r.Totals).Summary {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", row.Asset, row.Debit, row.Credit, row.Net, row.Count)
	}
	_ = w.Flush()

	p := r.Profit
	fmt.Fprintf(out, "\nTrades: %d (%d profitable, %s%%)\n", p.Count, p.ProfitableCount, p.ProfitablePercentage.StringFixed(2))
	fmt.Fprintf(out, "Net profit: %s\n", p.NetProfit.StringFixed(2))

	if n := len(r.Totals.Anomalies); n > 0 {
		fmt.Fprintf(out, "Excluded entries: %d\n", n)
	}
	if n := len(r.Discrepancies); n > 0 {
		fmt.Fprintf(out, "Running balance discrepancies: %d\n", n)
	}
}
