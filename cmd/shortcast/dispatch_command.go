package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shortcast/internal/browser"
	"shortcast/internal/dispatch"
	"shortcast/internal/history"
	"shortcast/internal/ledger"
	"shortcast/internal/logging"
	"shortcast/internal/notifications"
	"shortcast/internal/preflight"
	"shortcast/internal/uploader"
)

func newDispatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dispatch",
		Short: "Run a single dispatch tick and exit",
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

			results := preflight.RunAll(signalCtx, cfg)
			for _, result := range results {
				if !result.Passed {
					logger.Error("preflight check failed",
						logging.String("check", result.Name),
						logging.String("detail", result.Detail))
				}
			}
			if !preflight.Passed(results) {
				return fmt.Errorf("preflight checks failed")
			}

			histStore, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open history store: %w", err)
			}
			defer histStore.Close()

			driver := browser.NewDriver(cfg, logger)
			defer driver.Close()

			up := uploader.New(cfg, driver, notifications.NewService(cfg), logger)
			dispatcher := dispatch.New(ledger.NewStore(cfg.LedgerPath()), up, histStore, logger)
			return dispatcher.CheckAndPost(signalCtx)
		},
	}
}
