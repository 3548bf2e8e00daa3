package uploader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shortcast/internal/logging"
	"shortcast/internal/services"
	"shortcast/internal/testsupport"
)

// fakeSession scripts browser behavior for upload-flow tests.
type fakeSession struct {
	locations     []string
	visibleExprs  map[string]bool
	enabledExprs  map[string]bool
	screenshot    []byte
	setFilesErr   error
	typeErr       error
	clickErr      error
	navigateErr   error

	started   bool
	navigated []string
	attached  []string
	typed     []string
	clicked   []string
}

func (f *fakeSession) Start(context.Context) error {
	f.started = true
	return nil
}

func (f *fakeSession) Navigate(_ context.Context, url string) error {
	f.navigated = append(f.navigated, url)
	return f.navigateErr
}

func (f *fakeSession) Location(context.Context) (string, error) {
	if len(f.locations) == 0 {
		return "", errors.New("no scripted location")
	}
	location := f.locations[0]
	if len(f.locations) > 1 {
		f.locations = f.locations[1:]
	}
	return location, nil
}

func (f *fakeSession) WaitVisible(_ context.Context, expr string, _ time.Duration) (bool, error) {
	return f.visibleExprs[expr], nil
}

func (f *fakeSession) IsEnabled(_ context.Context, expr string) (bool, error) {
	return f.enabledExprs[expr], nil
}

func (f *fakeSession) ScrollIntoView(context.Context, string) error { return nil }

func (f *fakeSession) Click(_ context.Context, expr string) error {
	f.clicked = append(f.clicked, expr)
	return f.clickErr
}

func (f *fakeSession) Type(_ context.Context, expr, text string) error {
	if f.typeErr != nil {
		return f.typeErr
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *fakeSession) SetFiles(_ context.Context, _ string, paths ...string) error {
	if f.setFilesErr != nil {
		return f.setFilesErr
	}
	f.attached = append(f.attached, paths...)
	return nil
}

func (f *fakeSession) Screenshot(context.Context) ([]byte, error) {
	if f.screenshot == nil {
		return nil, errors.New("no screenshot scripted")
	}
	return f.screenshot, nil
}

func (f *fakeSession) Close() error { return nil }

// recordingNotifier captures notification calls.
type recordingNotifier struct {
	loginNeeded int
	published   []string
	failed      []string
}

func (r *recordingNotifier) NotifyManualLoginNeeded(context.Context, time.Duration) error {
	r.loginNeeded++
	return nil
}

func (r *recordingNotifier) NotifyPostPublished(_ context.Context, date, slot, _ string) error {
	r.published = append(r.published, date+" "+slot)
	return nil
}

func (r *recordingNotifier) NotifyUploadFailed(_ context.Context, date, slot, _, _ string) error {
	r.failed = append(r.failed, date+" "+slot)
	return nil
}

func (r *recordingNotifier) NotifyReplenishShortfall(context.Context, string, int, int) error {
	return nil
}

func (r *recordingNotifier) NotifyBatchReady(context.Context, string, int, int) error { return nil }

func (r *recordingNotifier) NotifyError(context.Context, error, string) error { return nil }

func (r *recordingNotifier) TestNotification(context.Context) error { return nil }

func newTestUploader(t *testing.T, session *fakeSession, notifier *recordingNotifier) *Uploader {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	u := New(cfg, session, notifier, logging.NewNop())
	u.sleep = func(context.Context, time.Duration) {}
	u.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }
	return u
}

// videoFile writes a placeholder artifact so upload tests pass the
// existence check.
func videoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, []byte("mp4"), 0o644); err != nil {
		t.Fatalf("write video file: %v", err)
	}
	return path
}

func enabledPostButton() (map[string]bool, map[string]bool, string) {
	selector := `//button[div[text()='Post']]`
	visible := map[string]bool{
		fileInputExpr: true,
		selector:      true,
	}
	enabled := map[string]bool{selector: true}
	return visible, enabled, selector
}

func TestEnsureReadyStartsOnce(t *testing.T) {
	session := &fakeSession{}
	u := newTestUploader(t, session, &recordingNotifier{})

	if err := u.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady: %v", err)
	}
	if !session.started {
		t.Fatal("expected browser session to be started")
	}
	if err := u.EnsureReady(context.Background()); err != nil {
		t.Fatalf("EnsureReady (second): %v", err)
	}
	if len(session.navigated) != 0 {
		t.Fatalf("EnsureReady navigated: %v", session.navigated)
	}
}

func TestVerifyLoginLoggedIn(t *testing.T) {
	session := &fakeSession{locations: []string{"https://www.tiktok.com/upload?lang=en"}}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	if err := u.VerifyLogin(context.Background()); err != nil {
		t.Fatalf("VerifyLogin: %v", err)
	}
	if notifier.loginNeeded != 0 {
		t.Fatalf("unexpected login notification count %d", notifier.loginNeeded)
	}
	if len(session.navigated) != 1 {
		t.Fatalf("navigations = %v, want single upload-page visit", session.navigated)
	}
}

func TestVerifyLoginManualLoginRecovers(t *testing.T) {
	session := &fakeSession{locations: []string{
		"https://www.tiktok.com/login?redirect=upload",
		"https://www.tiktok.com/upload?lang=en",
	}}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	if err := u.VerifyLogin(context.Background()); err != nil {
		t.Fatalf("VerifyLogin: %v", err)
	}
	if notifier.loginNeeded != 1 {
		t.Fatalf("login notification count = %d, want 1", notifier.loginNeeded)
	}
	if len(session.navigated) != 2 {
		t.Fatalf("navigations = %d, want initial plus post-grace retry", len(session.navigated))
	}
}

func TestVerifyLoginPersists(t *testing.T) {
	session := &fakeSession{locations: []string{
		"https://www.tiktok.com/login?redirect=upload",
		"https://www.tiktok.com/login?redirect=upload",
	}}
	u := newTestUploader(t, session, &recordingNotifier{})

	err := u.VerifyLogin(context.Background())
	if !errors.Is(err, services.ErrLoginRequired) {
		t.Fatalf("expected ErrLoginRequired, got %v", err)
	}
}

func TestUploadHappyPath(t *testing.T) {
	visible, enabled, selector := enabledPostButton()
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: visible,
		enabledExprs: enabled,
	}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	video := videoFile(t)
	err := u.Upload(context.Background(), "2026-03-14", "10:00", video, "Daily Motivation #3 #motivation #quotes #fyp")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(session.attached) != 1 || session.attached[0] != video {
		t.Fatalf("attached files = %v", session.attached)
	}
	if len(session.typed) != 1 || !strings.Contains(session.typed[0], "Daily Motivation #3") {
		t.Fatalf("typed captions = %v", session.typed)
	}
	if len(session.clicked) != 1 || session.clicked[0] != selector {
		t.Fatalf("clicked = %v, want %q", session.clicked, selector)
	}
	if len(notifier.published) != 1 {
		t.Fatalf("publish notifications = %v", notifier.published)
	}
}

func TestUploadStripsNonBMPCaption(t *testing.T) {
	visible, enabled, _ := enabledPostButton()
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: visible,
		enabledExprs: enabled,
	}
	u := newTestUploader(t, session, &recordingNotifier{})

	err := u.Upload(context.Background(), "2026-03-14", "11:00", videoFile(t), "Stay strong \U0001F4AA today")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(session.typed) != 1 {
		t.Fatalf("typed captions = %v", session.typed)
	}
	if strings.ContainsRune(session.typed[0], '\U0001F4AA') {
		t.Fatalf("caption still contains supplementary-plane rune: %q", session.typed[0])
	}
}

func TestUploadCaptionFailureIsNonFatal(t *testing.T) {
	visible, enabled, _ := enabledPostButton()
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: visible,
		enabledExprs: enabled,
		typeErr:      errors.New("caption field gone"),
	}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	err := u.Upload(context.Background(), "2026-03-14", "12:00", videoFile(t), "caption")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(notifier.published) != 1 {
		t.Fatal("expected publish despite caption failure")
	}
}

func TestUploadMissingFileInputScreenshots(t *testing.T) {
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: map[string]bool{},
		screenshot:   []byte("png-bytes"),
	}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	err := u.Upload(context.Background(), "2026-03-14", "13:00", videoFile(t), "caption")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(notifier.failed) != 1 {
		t.Fatalf("failure notifications = %v", notifier.failed)
	}

	var uploadErr *Error
	if !errors.As(err, &uploadErr) || uploadErr.ScreenshotPath == "" {
		t.Fatalf("error does not carry a screenshot path: %v", err)
	}
	if _, statErr := os.Stat(uploadErr.ScreenshotPath); statErr != nil {
		t.Fatalf("screenshot missing at reported path: %v", statErr)
	}

	entries, readErr := os.ReadDir(u.screenshotDir)
	if readErr != nil {
		t.Fatalf("read screenshot dir: %v", readErr)
	}
	if len(entries) != 1 {
		t.Fatalf("screenshot count = %d, want 1", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "upload-failure-") || filepath.Ext(name) != ".png" {
		t.Fatalf("unexpected screenshot name %q", name)
	}
}

func TestUploadResolvesRelativeVideoPath(t *testing.T) {
	visible, enabled, _ := enabledPostButton()
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: visible,
		enabledExprs: enabled,
	}
	u := newTestUploader(t, session, &recordingNotifier{})

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("mp4"), 0o644); err != nil {
		t.Fatalf("write video file: %v", err)
	}
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})

	if err := u.Upload(context.Background(), "2026-03-14", "10:00", "clip.mp4", "caption"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(session.attached) != 1 || !filepath.IsAbs(session.attached[0]) {
		t.Fatalf("attached files = %v, want absolute path", session.attached)
	}
	if filepath.Base(session.attached[0]) != "clip.mp4" {
		t.Fatalf("attached file = %q", session.attached[0])
	}
}

func TestUploadMissingVideoFile(t *testing.T) {
	session := &fakeSession{
		locations:  []string{"https://www.tiktok.com/upload?lang=en"},
		screenshot: []byte("png-bytes"),
	}
	notifier := &recordingNotifier{}
	u := newTestUploader(t, session, notifier)

	err := u.Upload(context.Background(), "2026-03-14", "10:00", filepath.Join(t.TempDir(), "gone.mp4"), "caption")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(session.attached) != 0 {
		t.Fatalf("attached files = %v, want none", session.attached)
	}
	if len(notifier.failed) != 1 {
		t.Fatalf("failure notifications = %v", notifier.failed)
	}
}

func TestUploadDisabledPostButtonIsDistinctFailure(t *testing.T) {
	first := `//button[div[text()='Post']]`
	later := `//button[text()='Post']`
	session := &fakeSession{
		locations: []string{"https://www.tiktok.com/upload?lang=en"},
		// The first visible candidate is disabled; a later candidate is
		// enabled but must not be consulted.
		visibleExprs: map[string]bool{fileInputExpr: true, first: true, later: true},
		enabledExprs: map[string]bool{later: true},
		screenshot:   []byte("png-bytes"),
	}
	u := newTestUploader(t, session, &recordingNotifier{})

	err := u.Upload(context.Background(), "2026-03-14", "14:00", videoFile(t), "caption")
	if !errors.Is(err, services.ErrUploadStep) {
		t.Fatalf("expected upload-step error for disabled button, got %v", err)
	}
	if errors.Is(err, services.ErrNotFound) {
		t.Fatalf("disabled button misreported as not found: %v", err)
	}
	if len(session.clicked) != 0 {
		t.Fatalf("clicked = %v, want none", session.clicked)
	}
}

func TestUploadNoPostButtonFound(t *testing.T) {
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/upload?lang=en"},
		visibleExprs: map[string]bool{fileInputExpr: true},
		screenshot:   []byte("png-bytes"),
	}
	u := newTestUploader(t, session, &recordingNotifier{})

	err := u.Upload(context.Background(), "2026-03-14", "14:00", videoFile(t), "caption")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadNavigatesBackAfterPublish(t *testing.T) {
	visible, enabled, _ := enabledPostButton()
	session := &fakeSession{
		locations:    []string{"https://www.tiktok.com/tiktokstudio/content"},
		visibleExprs: visible,
		enabledExprs: enabled,
	}
	u := newTestUploader(t, session, &recordingNotifier{})

	if err := u.Upload(context.Background(), "2026-03-14", "15:00", videoFile(t), "caption"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(session.navigated) != 1 || session.navigated[0] != u.uploadURL {
		t.Fatalf("navigations = %v, want return to upload page", session.navigated)
	}
}

func TestPostButtonSelectorsCoverAllLabels(t *testing.T) {
	selectors := postButtonSelectors([]string{"Post", "نشر"})
	if len(selectors) != 8 {
		t.Fatalf("selector count = %d, want 8", len(selectors))
	}
	if selectors[0] != `//button[div[text()='Post']]` {
		t.Fatalf("first selector = %q", selectors[0])
	}
	for _, selector := range selectors[4:] {
		if !strings.Contains(selector, "نشر") {
			t.Fatalf("selector %q missing localized label", selector)
		}
	}
}
