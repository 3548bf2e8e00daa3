// Package deps resolves the external binaries the daemon drives: the content
// renderer and a Chrome or Chromium build for the upload session.
package deps

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Requirement names one external binary and how it is used.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status is the resolution result for one requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// chromeCandidates is the PATH lookup order used when no explicit browser
// binary is configured. It matches the search order of the DevTools driver so
// status output reflects what the daemon will actually launch.
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
}

// CheckBinaries resolves each requirement's command on PATH.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// CheckChrome reports the browser binary the upload session will execute.
// A configured binary is checked directly; otherwise the candidates are
// resolved from PATH in order.
func CheckChrome(configured string) Status {
	result := Status{
		Name:        "Chrome",
		Description: "Browser driven for uploads",
	}

	if binary := strings.TrimSpace(configured); binary != "" {
		result.Command = binary
		if info, err := os.Stat(binary); err == nil && isExecutable(info) {
			result.Available = true
			return result
		}
		if resolved, err := exec.LookPath(binary); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
		result.Detail = fmt.Sprintf("configured binary %q not found", binary)
		return result
	}

	for _, candidate := range chromeCandidates {
		if resolved, err := exec.LookPath(candidate); err == nil {
			result.Command = resolved
			result.Available = true
			return result
		}
	}

	result.Command = chromeCandidates[0]
	result.Detail = "no chrome or chromium binary found on PATH"
	return result
}

func isExecutable(info os.FileInfo) bool {
	if info == nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
