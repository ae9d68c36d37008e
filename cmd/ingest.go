package cmd

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"lupa/internal/bootstrap"
	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
	"lupa/internal/usecase/ingest"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Run ingestion for one upstream resource",
}

var ingestLegislatorsCmd = &cobra.Command{
	Use:   "legislators",
	Short: "Ingest the current legislator roster (parties included)",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		if err := svc.FetchLegislators(ctx); err != nil {
			logging.Error(ctx, "legislators ingestion failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "ingest legislators")
		}

		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "legislators ingestion finished"); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

var ingestExpensesCmd = &cobra.Command{
	Use:   "expenses",
	Short: "Ingest one year of expenses for every known legislator",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		year, _ := cmd.Flags().GetInt("year")
		if year == 0 {
			year = time.Now().Year()
		}

		if err := svc.FetchExpenses(ctx, year); err != nil {
			logging.Error(ctx, "expenses ingestion failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "ingest expenses")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "expenses ingestion finished for year %d\n", year); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

var ingestBillsCmd = &cobra.Command{
	Use:   "bills",
	Short: "Ingest bills presented in the trailing window, authors included",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		days, _ := cmd.Flags().GetInt("days")

		if err := svc.FetchBills(ctx, days); err != nil {
			logging.Error(ctx, "bills ingestion failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "ingest bills")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "bills ingestion finished for last %d days\n", days); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

var ingestRollCallsCmd = &cobra.Command{
	Use:   "rollcalls",
	Short: "Ingest roll calls from the trailing window, individual votes included",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		days, _ := cmd.Flags().GetInt("days")

		if err := svc.FetchRollCalls(ctx, days); err != nil {
			logging.Error(ctx, "roll calls ingestion failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "ingest roll calls")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "roll calls ingestion finished for last %d days\n", days); err != nil {
			return errs.Wrap(err, "write ingest output")
		}
		return nil
	}),
}

func init() {
	ingestExpensesCmd.Flags().Int("year", 0, "Expense year (defaults to current year)")
	ingestBillsCmd.Flags().Int("days", 7, "Trailing window in days")
	ingestRollCallsCmd.Flags().Int("days", 7, "Trailing window in days")

	ingestCmd.AddCommand(ingestLegislatorsCmd)
	ingestCmd.AddCommand(ingestExpensesCmd)
	ingestCmd.AddCommand(ingestBillsCmd)
	ingestCmd.AddCommand(ingestRollCallsCmd)
	rootCmd.AddCommand(ingestCmd)
}
