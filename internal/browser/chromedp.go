package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/services"
)

// Driver implements Session on a real Chrome instance via the DevTools
// protocol. The browser runs visibly by default: upload platforms tend to
// reject headless sessions, and the operator needs the window for manual
// login.
type Driver struct {
	profileDir string
	headless   bool
	execPath   string
	logger     *slog.Logger

	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
}

var _ Session = (*Driver)(nil)

// NewDriver builds a driver from configuration.
func NewDriver(cfg *config.Config, logger *slog.Logger) *Driver {
	return &Driver{
		profileDir: cfg.Paths.ProfileDir,
		headless:   cfg.Platform.Headless,
		execPath:   cfg.Platform.ChromeBinary,
		logger:     logging.NewComponentLogger(logger, "browser"),
	}
}

// Start launches Chrome with the persisted profile directory. Subsequent
// calls are no-ops while the session is alive.
func (d *Driver) Start(ctx context.Context) error {
	if d.ctx != nil {
		return nil
	}
	if err := os.MkdirAll(d.profileDir, 0o755); err != nil {
		return services.Wrap(services.ErrExternalTool, "browser", "start", "create profile directory", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(d.profileDir),
		chromedp.Flag("headless", d.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("start-maximized", true),
	)
	if d.execPath != "" {
		opts = append(opts, chromedp.ExecPath(d.execPath))
	}

	// The browser deliberately outlives the caller's ctx: the session is a
	// process-lifetime resource shared across dispatch ticks.
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return services.Wrap(services.ErrExternalTool, "browser", "start", "launch chrome", err)
	}

	d.allocCancel = allocCancel
	d.ctx = browserCtx
	d.cancel = cancel
	d.logger.Info("browser session started", logging.String("profile", d.profileDir))
	return nil
}

// Close tears the browser down. Only interactive modes call this; the daemon
// keeps the session for its whole lifetime.
func (d *Driver) Close() error {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.allocCancel != nil {
		d.allocCancel()
		d.allocCancel = nil
	}
	d.ctx = nil
	return nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.ready(ctx); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, chromedp.Navigate(url))
}

func (d *Driver) Location(ctx context.Context) (string, error) {
	if err := d.ready(ctx); err != nil {
		return "", err
	}
	var location string
	if err := chromedp.Run(d.ctx, chromedp.Location(&location)); err != nil {
		return "", err
	}
	return location, nil
}

func (d *Driver) WaitVisible(ctx context.Context, expr string, timeout time.Duration) (bool, error) {
	if err := d.ready(ctx); err != nil {
		return false, err
	}
	waitCtx, cancel := context.WithTimeout(d.ctx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(expr, chromedp.BySearch))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	return false, err
}

func (d *Driver) IsEnabled(ctx context.Context, expr string) (bool, error) {
	if err := d.ready(ctx); err != nil {
		return false, err
	}
	script := fmt.Sprintf(`(() => {
		const result = document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null);
		const el = result.singleNodeValue;
		return !!el && !el.disabled;
	})()`, expr)
	var enabled bool
	if err := chromedp.Run(d.ctx, chromedp.Evaluate(script, &enabled)); err != nil {
		return false, err
	}
	return enabled, nil
}

func (d *Driver) ScrollIntoView(ctx context.Context, expr string) error {
	if err := d.ready(ctx); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, chromedp.ScrollIntoView(expr, chromedp.BySearch))
}

func (d *Driver) Click(ctx context.Context, expr string) error {
	if err := d.ready(ctx); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, chromedp.Click(expr, chromedp.BySearch))
}

func (d *Driver) Type(ctx context.Context, expr, text string) error {
	if err := d.ready(ctx); err != nil {
		return err
	}
	return chromedp.Run(d.ctx,
		chromedp.Click(expr, chromedp.BySearch),
		chromedp.SendKeys(expr, text, chromedp.BySearch),
	)
}

func (d *Driver) SetFiles(ctx context.Context, expr string, paths ...string) error {
	if err := d.ready(ctx); err != nil {
		return err
	}
	return chromedp.Run(d.ctx, chromedp.SetUploadFiles(expr, paths, chromedp.BySearch))
}

func (d *Driver) Screenshot(ctx context.Context) ([]byte, error) {
	if err := d.ready(ctx); err != nil {
		return nil, err
	}
	var buf []byte
	if err := chromedp.Run(d.ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *Driver) ready(ctx context.Context) error {
	if d.ctx == nil {
		return services.Wrap(services.ErrExternalTool, "browser", "session", "session not started", nil)
	}
	return ctx.Err()
}
