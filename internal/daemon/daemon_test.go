package daemon

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/testsupport"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) Run(context.Context) error {
	f.calls++
	return f.err
}

func stubBinaries(t *testing.T, cfg *config.Config) {
	t.Helper()
	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	renderer := filepath.Join(binDir, "renderer")
	chrome := filepath.Join(binDir, "chromium")
	for _, path := range []string{renderer, chrome} {
		if err := os.WriteFile(path, script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", path, err)
		}
	}
	cfg.Generator.Command = renderer
	cfg.Platform.ChromeBinary = chrome
	cfg.Notifications.NtfyTopic = ""
}

func TestDaemonRunsRunner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stubBinaries(t, cfg)
	runner := &fakeRunner{}

	d, err := New(cfg, runner, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("runner calls = %d, want 1", runner.calls)
	}
	if d.Running() {
		t.Fatal("daemon still reports running after Run returned")
	}

	// Lock must be released so a subsequent run can acquire it.
	if err := d.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
}

func TestDaemonSecondInstanceBlocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stubBinaries(t, cfg)

	holder := flock.New(cfg.LockPath())
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire holder lock: ok=%v err=%v", ok, err)
	}
	defer holder.Unlock()

	runner := &fakeRunner{}
	d, err := New(cfg, runner, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "already running") {
		t.Fatalf("expected lock conflict, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatal("runner invoked despite lock conflict")
	}
}

func TestDaemonPreflightFailureBlocksRunner(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	stubBinaries(t, cfg)
	cfg.Generator.Command = "clearly-not-present-renderer"

	runner := &fakeRunner{}
	d, err := New(cfg, runner, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = d.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "preflight") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	if runner.calls != 0 {
		t.Fatal("runner invoked despite failed preflight")
	}
}
