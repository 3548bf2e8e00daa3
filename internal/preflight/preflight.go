package preflight

import (
	"context"

	"shortcast/internal/config"
	"shortcast/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Videos directory", cfg.Paths.VideosDir))
	results = append(results, CheckDirectoryAccess("Profile directory", cfg.Paths.ProfileDir))
	results = append(results, CheckDirectoryAccess("Screenshot directory", cfg.Paths.ScreenshotDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, resultFromStatus(status))
	}

	if cfg.Notifications.NtfyTopic != "" {
		results = append(results, CheckNtfy(ctx, cfg.Notifications.NtfyTopic))
	}

	return results
}

func resultFromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Detail: status.Command}
	if !status.Available {
		result.Detail = status.Detail
		if status.Optional {
			result.Passed = true
			result.Detail += " (optional)"
		}
	}
	return result
}

// Passed reports whether every result passed.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
