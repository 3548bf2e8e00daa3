package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"shortcast/internal/ledger"
)

func newScheduleCommand(ctx *commandContext) *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Inspect the post ledger",
	}
	scheduleCmd.AddCommand(newScheduleListCommand(ctx))
	return scheduleCmd
}

func newScheduleListCommand(ctx *commandContext) *cobra.Command {
	var date string
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			store := ledger.NewStore(cfg.LedgerPath())
			schedule, _, err := store.Load()
			if err != nil {
				return fmt.Errorf("load ledger: %w", err)
			}

			dates := make([]string, 0, len(schedule))
			for d := range schedule {
				if date != "" && d != date {
					continue
				}
				dates = append(dates, d)
			}
			sort.Strings(dates)

			var rows [][]string
			for _, d := range dates {
				for _, post := range schedule[d] {
					if pendingOnly && post.Status != ledger.StatusPending {
						continue
					}
					rows = append(rows, []string{
						d, post.Time, string(post.Status), post.VideoPath, truncate(post.Caption, 48),
					})
				}
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No scheduled posts.")
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"Date", "Time", "Status", "Video", "Caption"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Only show posts for this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Only show pending posts")
	return cmd
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
