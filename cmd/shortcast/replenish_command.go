package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"shortcast/internal/inventory"
	"shortcast/internal/ledger"
	"shortcast/internal/notifications"
	"shortcast/internal/renderer"
)

func newReplenishCommand(ctx *commandContext) *cobra.Command {
	var date string
	var count int

	cmd := &cobra.Command{
		Use:   "replenish",
		Short: "Run a single inventory replenishment pass and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			target := count
			if target <= 0 {
				target = cfg.Schedule.DailyTarget
			}
			replenisher := inventory.New(
				ledger.NewStore(cfg.LedgerPath()),
				renderer.New(cfg, logger),
				notifications.NewService(cfg),
				cfg.Schedule.StartHour,
				target,
				logger)

			if date != "" {
				if _, err := time.Parse(ledger.DateLayout, date); err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				added, err := replenisher.Ensure(signalCtx, date, target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d post(s) for %s\n", added, date)
				return nil
			}
			return replenisher.EnsureUpcoming(signalCtx, time.Now())
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Replenish only this date (YYYY-MM-DD); default is today and tomorrow")
	cmd.Flags().IntVar(&count, "count", 0, "Target post count per date; default is schedule.daily_target")
	return cmd
}
