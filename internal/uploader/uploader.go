package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shortcast/internal/browser"
	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/notifications"
	"shortcast/internal/services"
	"shortcast/internal/textutil"
)

// selectorPollTimeout bounds the visibility probe for each post-button
// candidate. Candidates are tried in order, so this stays short.
const selectorPollTimeout = 2 * time.Second

// Error pairs an upload failure with the diagnostic screenshot captured at
// the point of failure. ScreenshotPath is empty when no screenshot could be
// written.
type Error struct {
	ScreenshotPath string
	Err            error
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Uploader drives one browser session through the publish flow. It is owned
// by a single dispatch goroutine and is not safe for concurrent use.
type Uploader struct {
	session  browser.Session
	notifier notifications.Service
	logger   *slog.Logger

	uploadURL      string
	loginMarker    string
	buttonLabels   []string
	screenshotDir  string
	navigateSettle time.Duration
	fileInputWait  time.Duration
	ingestWait     time.Duration
	confirmWait    time.Duration
	loginGrace     time.Duration

	ready bool

	sleep func(ctx context.Context, d time.Duration)
	now   func() time.Time
}

// New builds an uploader around an existing browser session. The session is
// started lazily on the first EnsureReady call.
func New(cfg *config.Config, session browser.Session, notifier notifications.Service, logger *slog.Logger) *Uploader {
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Uploader{
		session:        session,
		notifier:       notifier,
		logger:         logging.NewComponentLogger(logger, "uploader"),
		uploadURL:      cfg.Platform.UploadURL,
		loginMarker:    cfg.Platform.LoginURLMarker,
		buttonLabels:   cfg.Platform.PostButtonLabels,
		screenshotDir:  cfg.Paths.ScreenshotDir,
		navigateSettle: time.Duration(cfg.Platform.NavigateSettleSeconds) * time.Second,
		fileInputWait:  time.Duration(cfg.Platform.FileInputTimeout) * time.Second,
		ingestWait:     time.Duration(cfg.Platform.IngestWaitSeconds) * time.Second,
		confirmWait:    time.Duration(cfg.Platform.ConfirmWaitSeconds) * time.Second,
		loginGrace:     time.Duration(cfg.Platform.LoginGraceSeconds) * time.Second,
		sleep:          sleepContext,
		now:            time.Now,
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// EnsureReady launches the browser session on first use. The session then
// persists for the rest of the process lifetime and is shared across ticks.
func (u *Uploader) EnsureReady(ctx context.Context) error {
	if u.ready {
		return nil
	}
	if err := u.session.Start(ctx); err != nil {
		return err
	}
	u.ready = true
	return nil
}

// VerifyLogin navigates to the upload page and checks whether the session was
// redirected to login. If so it notifies the operator, waits out the grace
// window for a manual login, and re-checks exactly once.
func (u *Uploader) VerifyLogin(ctx context.Context) error {
	if err := u.session.Navigate(ctx, u.uploadURL); err != nil {
		return services.Wrap(services.ErrUploadStep, "uploader", "verify login", "navigate to upload page", err)
	}
	u.sleep(ctx, u.navigateSettle)

	onLogin, err := u.onLoginPage(ctx)
	if err != nil {
		return err
	}
	if !onLogin {
		return nil
	}

	u.logger.Warn("login required, waiting for manual intervention",
		logging.Duration("grace_window", u.loginGrace))
	if err := u.notifier.NotifyManualLoginNeeded(ctx, u.loginGrace); err != nil {
		u.logger.Warn("login notification failed", logging.Error(err))
	}
	u.sleep(ctx, u.loginGrace)

	if err := u.session.Navigate(ctx, u.uploadURL); err != nil {
		return services.Wrap(services.ErrUploadStep, "uploader", "verify login", "navigate after grace window", err)
	}
	u.sleep(ctx, u.navigateSettle)

	onLogin, err = u.onLoginPage(ctx)
	if err != nil {
		return err
	}
	if onLogin {
		return services.Wrap(services.ErrLoginRequired, "uploader", "verify login", "session still on login page after grace window", nil)
	}
	u.logger.Info("manual login completed")
	return nil
}

func (u *Uploader) onLoginPage(ctx context.Context) (bool, error) {
	location, err := u.session.Location(ctx)
	if err != nil {
		return false, services.Wrap(services.ErrUploadStep, "uploader", "verify login", "read current location", err)
	}
	return strings.Contains(location, u.loginMarker), nil
}

// Upload publishes a single video. On failure a screenshot is written to the
// screenshot directory and the operator is notified; the caller keeps the
// post pending and a later tick retries it.
func (u *Uploader) Upload(ctx context.Context, date, slot, videoPath, caption string) error {
	log := u.logger.With(
		logging.String(logging.FieldDate, date),
		logging.String(logging.FieldSlot, slot),
		logging.String(logging.FieldVideo, filepath.Base(videoPath)))

	// The ledger may hold relative paths; the file-input protocol needs an
	// absolute one.
	absPath, err := filepath.Abs(videoPath)
	if err != nil {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrUploadStep, "uploader", "upload", "resolve video path", err))
	}
	if _, err := os.Stat(absPath); err != nil {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrNotFound, "uploader", "upload", "video file missing", err))
	}

	if err := u.returnToUploadPage(ctx); err != nil {
		return u.failed(ctx, log, date, slot, videoPath, err)
	}

	visible, err := u.session.WaitVisible(ctx, fileInputExpr, u.fileInputWait)
	if err != nil {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrUploadStep, "uploader", "upload", "wait for file input", err))
	}
	if !visible {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrNotFound, "uploader", "upload", "file input did not appear", nil))
	}

	if err := u.session.SetFiles(ctx, fileInputExpr, absPath); err != nil {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrUploadStep, "uploader", "upload", "attach video file", err))
	}
	log.Info("video attached, waiting for platform ingest",
		logging.Duration("ingest_wait", u.ingestWait))
	u.sleep(ctx, u.ingestWait)

	u.applyCaption(ctx, log, caption)

	button, err := u.findPostButton(ctx)
	if err != nil {
		return u.failed(ctx, log, date, slot, videoPath, err)
	}

	if err := u.session.ScrollIntoView(ctx, button); err != nil {
		log.Warn("scroll to post button failed", logging.Error(err))
	}
	u.sleep(ctx, time.Second)
	if err := u.session.Click(ctx, button); err != nil {
		return u.failed(ctx, log, date, slot, videoPath,
			services.Wrap(services.ErrUploadStep, "uploader", "upload", "click post button", err))
	}
	u.sleep(ctx, u.confirmWait)

	log.Info("video published")
	if err := u.notifier.NotifyPostPublished(ctx, date, slot, caption); err != nil {
		log.Warn("publish notification failed", logging.Error(err))
	}
	return nil
}

// returnToUploadPage navigates back to the upload surface unless the session
// already sits on it. Each publish leaves the page in a post-submit state, so
// the check is against the configured URL, not the login marker.
func (u *Uploader) returnToUploadPage(ctx context.Context) error {
	location, err := u.session.Location(ctx)
	if err != nil {
		return services.Wrap(services.ErrUploadStep, "uploader", "upload", "read current location", err)
	}
	if location == u.uploadURL {
		return nil
	}
	if err := u.session.Navigate(ctx, u.uploadURL); err != nil {
		return services.Wrap(services.ErrUploadStep, "uploader", "upload", "navigate to upload page", err)
	}
	u.sleep(ctx, u.navigateSettle)
	return nil
}

// applyCaption sanitizes and types the caption. Caption failures are never
// fatal; a video without a caption still publishes.
func (u *Uploader) applyCaption(ctx context.Context, log *slog.Logger, caption string) {
	sanitized, changed := textutil.SanitizeCaption(caption)
	if changed {
		log.Warn("caption adjusted before typing, published text differs from the scheduled one")
	}
	if sanitized == "" {
		return
	}
	if err := u.session.Type(ctx, captionExpr, sanitized); err != nil {
		log.Warn("caption entry failed, publishing without caption", logging.Error(err))
	}
}

// findPostButton tries the candidate selectors in order and commits to the
// first visible match. A visible button that is still disabled means the
// platform has not finished processing the video, which is a distinct failure
// from the button not existing at all.
func (u *Uploader) findPostButton(ctx context.Context) (string, error) {
	for _, selector := range postButtonSelectors(u.buttonLabels) {
		visible, err := u.session.WaitVisible(ctx, selector, selectorPollTimeout)
		if err != nil {
			return "", services.Wrap(services.ErrUploadStep, "uploader", "upload", "probe post button", err)
		}
		if !visible {
			continue
		}
		enabled, err := u.session.IsEnabled(ctx, selector)
		if err != nil {
			return "", services.Wrap(services.ErrUploadStep, "uploader", "upload", "check post button state", err)
		}
		if !enabled {
			return "", services.Wrap(services.ErrUploadStep, "uploader", "upload", "post button visible but disabled", nil)
		}
		return selector, nil
	}
	return "", services.Wrap(services.ErrNotFound, "uploader", "upload", "no post button found", nil)
}

// failed records a failure artifact and notifies the operator before handing
// the error back to the dispatcher. The screenshot path travels with the
// returned error so callers can persist it alongside the failure.
func (u *Uploader) failed(ctx context.Context, log *slog.Logger, date, slot, videoPath string, cause error) error {
	screenshotPath := u.captureFailure(ctx, log)
	log.Error("upload failed",
		logging.Error(cause),
		logging.String("screenshot", screenshotPath))
	if err := u.notifier.NotifyUploadFailed(ctx, date, slot, videoPath, screenshotPath); err != nil {
		log.Warn("failure notification failed", logging.Error(err))
	}
	return &Error{ScreenshotPath: screenshotPath, Err: cause}
}

func (u *Uploader) captureFailure(ctx context.Context, log *slog.Logger) string {
	data, err := u.session.Screenshot(ctx)
	if err != nil {
		log.Warn("failure screenshot capture failed", logging.Error(err))
		return ""
	}
	if err := os.MkdirAll(u.screenshotDir, 0o755); err != nil {
		log.Warn("failure screenshot directory unavailable", logging.Error(err))
		return ""
	}
	path := filepath.Join(u.screenshotDir, fmt.Sprintf("upload-failure-%s.png", u.now().Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Warn("failure screenshot write failed", logging.Error(err))
		return ""
	}
	return path
}
