package main

import (
	"bufio"
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"shortcast/internal/browser"
	"shortcast/internal/notifications"
	"shortcast/internal/uploader"
)

func newLoginCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open the browser to establish a login session",
		Long: "Opens the browser with the persistent profile and verifies login " +
			"state. When the upload page redirects to login, the grace window " +
			"gives you time to authenticate manually; the profile then keeps " +
			"the session across daemon restarts.",
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

			driver := browser.NewDriver(cfg, logger)
			defer driver.Close()

			up := uploader.New(cfg, driver, notifications.NewService(cfg), logger)
			if err := up.EnsureReady(signalCtx); err != nil {
				return err
			}
			if err := up.VerifyLogin(signalCtx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Login verified. Press Enter to close the browser.")
			waitForEnter(signalCtx, cmd)
			fmt.Fprintln(out, "Login session established.")
			return nil
		},
	}
}

// waitForEnter blocks until the user presses Enter or the context is
// cancelled. The stdin read runs in a goroutine because a blocked read would
// otherwise swallow SIGINT.
func waitForEnter(ctx context.Context, cmd *cobra.Command) {
	done := make(chan struct{})
	go func() {
		reader := bufio.NewReader(cmd.InOrStdin())
		_, _ = reader.ReadString('\n')
		close(done)
	}()
	select {
	case <-ctx.Done():
	case <-done:
	}
}
