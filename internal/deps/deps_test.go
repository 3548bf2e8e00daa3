package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}

	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}
}

func TestCheckChromeConfiguredBinary(t *testing.T) {
	tmp := t.TempDir()
	chromePath := filepath.Join(tmp, "chromium")
	if err := os.WriteFile(chromePath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write chrome stub: %v", err)
	}

	status := CheckChrome(chromePath)
	if !status.Available {
		t.Fatalf("expected configured binary to be available, got detail %q", status.Detail)
	}
	if status.Command != chromePath {
		t.Fatalf("expected command %q, got %q", chromePath, status.Command)
	}
}

func TestCheckChromeConfiguredMissing(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckChrome(filepath.Join(t.TempDir(), "no-such-chrome"))
	if status.Available {
		t.Fatal("expected missing configured binary to be unavailable")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
}

func TestCheckChromePathFallback(t *testing.T) {
	binDir := t.TempDir()
	chromePath := filepath.Join(binDir, "google-chrome")
	if err := os.WriteFile(chromePath, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write chrome stub: %v", err)
	}
	t.Setenv("PATH", binDir)

	status := CheckChrome("")
	if !status.Available {
		t.Fatalf("expected PATH fallback to resolve, got detail %q", status.Detail)
	}
	if status.Command != chromePath {
		t.Fatalf("expected command %q, got %q", chromePath, status.Command)
	}
}

func TestCheckChromeNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	status := CheckChrome("")
	if status.Available {
		t.Fatal("expected chrome resolution to fail")
	}
	if status.Detail == "" {
		t.Fatal("expected detail message when chrome is unavailable")
	}
}
