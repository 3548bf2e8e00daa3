// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"shortcast/internal/config"
)

// NewConfig returns a validated configuration rooted in a per-test temporary
// directory. Wait and grace delays are zeroed so tests never sleep.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.VideosDir = filepath.Join(base, "videos")
	cfg.Paths.ProfileDir = filepath.Join(base, "profile")
	cfg.Paths.ScreenshotDir = filepath.Join(base, "screenshots")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	cfg.Platform.NavigateSettleSeconds = 0
	cfg.Platform.IngestWaitSeconds = 0
	cfg.Platform.ConfirmWaitSeconds = 0
	cfg.Platform.LoginGraceSeconds = 0
	cfg.Platform.FileInputTimeout = 1

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}
