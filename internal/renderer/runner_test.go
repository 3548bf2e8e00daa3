package renderer_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/renderer"
	"shortcast/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "render.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func newRunner(t *testing.T, command string) *renderer.Runner {
	t.Helper()
	cfg := config.Default()
	cfg.Generator.Command = command
	cfg.Generator.TimeoutSeconds = 30
	return renderer.New(&cfg, logging.NewNop())
}

func TestGenerateReturnsLastStdoutLine(t *testing.T) {
	artifact := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(artifact, []byte("x"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
	script := writeScript(t, "echo rendering...\necho "+artifact+"\n")

	runner := newRunner(t, script)
	got, err := runner.Generate(context.Background(), 1, "2024-01-01")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != artifact {
		t.Fatalf("unexpected artifact path %q", got)
	}
}

func TestGenerateWrapsCommandFailure(t *testing.T) {
	script := writeScript(t, "echo boom >&2\nexit 3\n")

	runner := newRunner(t, script)
	_, err := runner.Generate(context.Background(), 2, "2024-01-01")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}

func TestGenerateRejectsMissingArtifact(t *testing.T) {
	script := writeScript(t, "echo /nonexistent/video.mp4\n")

	runner := newRunner(t, script)
	_, err := runner.Generate(context.Background(), 3, "2024-01-01")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateRejectsEmptyOutput(t *testing.T) {
	script := writeScript(t, "exit 0\n")

	runner := newRunner(t, script)
	_, err := runner.Generate(context.Background(), 4, "2024-01-01")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
}
