package browser

import (
	"context"
	"time"
)

// Session is the browser-automation surface the upload flow depends on.
// Element queries use XPath expressions. Implementations own one long-lived
// browser; once started, the session is reused for the remaining lifetime of
// the process and is never torn down automatically.
type Session interface {
	// Start launches the browser with a persisted profile directory so login
	// state survives process restarts. Starting an already-started session is
	// a no-op.
	Start(ctx context.Context) error

	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)

	// WaitVisible blocks until an element matching the expression is visible,
	// or the bounded wait elapses. It returns false (without error) on
	// timeout so callers can treat "not found" as an expected outcome.
	WaitVisible(ctx context.Context, expr string, timeout time.Duration) (bool, error)

	IsEnabled(ctx context.Context, expr string) (bool, error)
	ScrollIntoView(ctx context.Context, expr string) error
	Click(ctx context.Context, expr string) error
	Type(ctx context.Context, expr, text string) error
	SetFiles(ctx context.Context, expr string, paths ...string) error

	// Screenshot captures the visible viewport as PNG bytes.
	Screenshot(ctx context.Context) ([]byte, error)

	Close() error
}
