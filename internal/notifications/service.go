package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shortcast/internal/config"
)

const userAgent = "shortcast/0.1.0"

// Service defines the notification surface exposed to dispatch and
// replenishment components.
type Service interface {
	NotifyManualLoginNeeded(ctx context.Context, graceWindow time.Duration) error
	NotifyPostPublished(ctx context.Context, date, slot, caption string) error
	NotifyUploadFailed(ctx context.Context, date, slot, videoPath, screenshotPath string) error
	NotifyReplenishShortfall(ctx context.Context, date string, have, target int) error
	NotifyBatchReady(ctx context.Context, date string, added, total int) error
	NotifyError(ctx context.Context, err error, contextLabel string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		settings: cfg.Notifications,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	settings config.Notifications
}

func (n *ntfyService) NotifyManualLoginNeeded(ctx context.Context, graceWindow time.Duration) error {
	if !n.settings.Login {
		return nil
	}
	data := payload{
		title:    "shortcast - Login Needed",
		message:  fmt.Sprintf("Session is on the login page. Log in manually in the browser window within %s.", graceWindow.Round(time.Second)),
		tags:     []string{"shortcast", "login", "needed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPostPublished(ctx context.Context, date, slot, caption string) error {
	if !n.settings.Uploads {
		return nil
	}
	data := payload{
		title:   "shortcast - Posted",
		message: fmt.Sprintf("Published %s %s: %s", date, slot, strings.TrimSpace(caption)),
		tags:    []string{"shortcast", "upload", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUploadFailed(ctx context.Context, date, slot, videoPath, screenshotPath string) error {
	if !n.settings.Uploads {
		return nil
	}
	message := fmt.Sprintf("Upload failed for %s %s: %s", date, slot, videoPath)
	if screenshotPath != "" {
		message = fmt.Sprintf("%s\nScreenshot: %s", message, screenshotPath)
	}
	data := payload{
		title:    "shortcast - Upload Failed",
		message:  message,
		tags:     []string{"shortcast", "upload", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReplenishShortfall(ctx context.Context, date string, have, target int) error {
	if !n.settings.Replenishment {
		return nil
	}
	data := payload{
		title:   "shortcast - Inventory Short",
		message: fmt.Sprintf("Date %s holds %d/%d posts after replenishment", date, have, target),
		tags:    []string{"shortcast", "inventory", "shortfall"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchReady(ctx context.Context, date string, added, total int) error {
	if !n.settings.Replenishment {
		return nil
	}
	data := payload{
		title:   "shortcast - Batch Ready",
		message: fmt.Sprintf("Generated %d new posts for %s (total %d)", added, date, total),
		tags:    []string{"shortcast", "inventory", "ready"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.settings.Errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "shortcast - Error",
		message:  builder.String(),
		tags:     []string{"shortcast", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "shortcast - Test",
		message:  "Notification system test",
		tags:     []string{"shortcast", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned status %d", resp.StatusCode)
	}
	return nil
}

// NewNop returns a service that silently drops every notification.
func NewNop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyManualLoginNeeded(context.Context, time.Duration) error { return nil }

func (noopService) NotifyPostPublished(context.Context, string, string, string) error { return nil }

func (noopService) NotifyUploadFailed(context.Context, string, string, string, string) error {
	return nil
}

func (noopService) NotifyReplenishShortfall(context.Context, string, int, int) error { return nil }

func (noopService) NotifyBatchReady(context.Context, string, int, int) error { return nil }

func (noopService) NotifyError(context.Context, error, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
