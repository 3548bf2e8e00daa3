package renderer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/services"
)

// Runner invokes the external renderer command to produce one video artifact.
// The command receives a 1-based sequence index and the target date and must
// print the artifact path as the last line of stdout.
type Runner struct {
	command string
	timeout time.Duration
	logger  *slog.Logger
}

// New builds a runner from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	return &Runner{
		command: cfg.Generator.Command,
		timeout: time.Duration(cfg.Generator.TimeoutSeconds) * time.Second,
		logger:  logging.NewComponentLogger(logger, "renderer"),
	}
}

// Generate renders one video for the given index and date and returns the
// artifact path.
func (r *Runner) Generate(ctx context.Context, index int, date string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.command, "--index", strconv.Itoa(index), "--date", date)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("launching renderer",
		logging.String("command", r.command),
		logging.Int("index", index),
		logging.String(logging.FieldDate, date),
	)

	start := time.Now()
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(lastLine(stderr.String()))
		if detail == "" {
			detail = err.Error()
		}
		return "", services.Wrap(services.ErrExternalTool, "renderer", "generate",
			fmt.Sprintf("index %d for %s: %s", index, date, detail), err)
	}

	artifact := strings.TrimSpace(lastLine(stdout.String()))
	if artifact == "" {
		return "", services.Wrap(services.ErrExternalTool, "renderer", "generate",
			fmt.Sprintf("index %d for %s: command printed no artifact path", index, date), nil)
	}
	if _, err := os.Stat(artifact); err != nil {
		return "", services.Wrap(services.ErrNotFound, "renderer", "generate",
			fmt.Sprintf("artifact %q missing", artifact), err)
	}

	r.logger.Info("rendered video",
		logging.Int("index", index),
		logging.String(logging.FieldDate, date),
		logging.String(logging.FieldVideo, artifact),
		logging.Duration("elapsed", time.Since(start)),
	)
	return artifact, nil
}

// Binary returns the configured renderer executable name.
func (r *Runner) Binary() string {
	return r.command
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
