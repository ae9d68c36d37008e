package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"lupa/internal/bootstrap"
	"lupa/internal/bootstrap/logging"
	"lupa/internal/errs"
	"lupa/internal/usecase/ingest"
)

var dlqCmd = &cobra.Command{
	Use:   "dlq",
	Short: "Inspect and resolve dead-letter entries",
}

var dlqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List dead-letter entries (unresolved by default)",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		includeResolved, _ := cmd.Flags().GetBool("all")
		limit, _ := cmd.Flags().GetInt("limit")

		items, err := svc.ListDeadLetters(ctx, includeResolved, limit)
		if err != nil {
			logging.Error(ctx, "list dead letters failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list dead letters")
		}

		if len(items) == 0 {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), "no dead-letter entries"); err != nil {
				return errs.Wrap(err, "write dlq output")
			}
			return nil
		}

		for _, item := range items {
			status := "open"
			if item.Resolved {
				status = "resolved"
			}
			if _, err := fmt.Fprintf(
				cmd.OutOrStdout(),
				"%s  [%s] %s %s: %s\n",
				item.ID,
				status,
				item.OriginSource,
				item.ErrorType,
				item.ErrorMessage,
			); err != nil {
				return errs.Wrap(err, "write dlq output")
			}
		}
		return nil
	}),
}

var dlqResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Mark one dead-letter entry as resolved",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ingest.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		id, _ := cmd.Flags().GetString("id")

		if err := svc.ResolveDeadLetter(ctx, id); err != nil {
			logging.Error(ctx, "resolve dead letter failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "resolve dead letter")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "dead letter resolved: %s\n", id); err != nil {
			return errs.Wrap(err, "write dlq output")
		}
		return nil
	}),
}

func init() {
	dlqListCmd.Flags().Bool("all", false, "Include resolved entries")
	dlqListCmd.Flags().Int("limit", 50, "Maximum entries to list (0 = no limit)")
	dlqResolveCmd.Flags().String("id", "", "Dead-letter entry ID")
	_ = dlqResolveCmd.MarkFlagRequired("id")

	dlqCmd.AddCommand(dlqListCmd)
	dlqCmd.AddCommand(dlqResolveCmd)
	rootCmd.AddCommand(dlqCmd)
}
