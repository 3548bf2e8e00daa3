package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/preflight"
)

// Runner is the blocking control loop the daemon supervises.
type Runner interface {
	Run(ctx context.Context) error
}

// Daemon wraps the scheduler loop with single-instance locking and startup
// environment checks.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	runner Runner

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || runner == nil || logger == nil {
		return nil, errors.New("daemon requires config, runner, and logger")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		runner:   runner,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Run acquires the instance lock, verifies the environment, and blocks in the
// scheduler loop until the context is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shortcast daemon instance is already running")
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", logging.Error(err))
		}
	}()

	results := preflight.RunAll(ctx, d.cfg)
	for _, result := range results {
		if !result.Passed {
			d.logger.Error("preflight check failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
		}
	}
	if !preflight.Passed(results) {
		return errors.New("preflight checks failed")
	}

	d.logger.Info("shortcast daemon started", logging.String("lock", d.lockPath))
	err = d.runner.Run(ctx)
	d.logger.Info("shortcast daemon stopped")
	return err
}

// Running reports whether the control loop is currently active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}
