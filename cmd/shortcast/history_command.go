package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shortcast/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var date string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded upload attempts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer store.Close()

			var attempts []history.Attempt
			if date != "" {
				attempts, err = store.ByDate(cmd.Context(), date)
			} else {
				attempts, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("query history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(attempts) == 0 {
				fmt.Fprintln(out, "No upload attempts recorded.")
				return nil
			}

			rows := make([][]string, 0, len(attempts))
			for _, attempt := range attempts {
				detail := attempt.Error
				if detail == "" {
					detail = "-"
				}
				rows = append(rows, []string{
					attempt.CreatedAt.Local().Format(time.DateTime),
					attempt.Date,
					attempt.Slot,
					string(attempt.Outcome),
					truncate(detail, 56),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Recorded", "Date", "Time", "Outcome", "Detail"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of attempts to show")
	cmd.Flags().StringVar(&date, "date", "", "Only show attempts for this ledger date (YYYY-MM-DD)")
	return cmd
}
