package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shortcast/internal/browser"
	"shortcast/internal/daemon"
	"shortcast/internal/dispatch"
	"shortcast/internal/history"
	"shortcast/internal/inventory"
	"shortcast/internal/ledger"
	"shortcast/internal/notifications"
	"shortcast/internal/renderer"
	"shortcast/internal/scheduler"
	"shortcast/internal/uploader"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler daemon until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemonProcess(cmd.Context(), ctx)
		},
	}
}

func runDaemonProcess(cmdCtx context.Context, ctx *commandContext) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	histStore, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer histStore.Close()

	store := ledger.NewStore(cfg.LedgerPath())
	notifier := notifications.NewService(cfg)

	driver := browser.NewDriver(cfg, logger)
	defer driver.Close()

	up := uploader.New(cfg, driver, notifier, logger)
	dispatcher := dispatch.New(store, up, histStore, logger)
	replenisher := inventory.New(store, renderer.New(cfg, logger), notifier,
		cfg.Schedule.StartHour, cfg.Schedule.DailyTarget, logger)
	loop := scheduler.New(cfg, dispatcher, replenisher, notifier, logger)

	d, err := daemon.New(cfg, loop, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	return d.Run(signalCtx)
}
