package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"shortcast/internal/config"
	"shortcast/internal/logging"
	"shortcast/internal/notifications"
)

// Dispatcher runs one due-post scan.
type Dispatcher interface {
	CheckAndPost(ctx context.Context) error
}

// Replenisher tops up inventory for today and tomorrow.
type Replenisher interface {
	EnsureUpcoming(ctx context.Context, now time.Time) error
}

// Scheduler drives dispatch and replenishment on independent cadences inside
// one blocking loop. Jobs run sequentially on the calling goroutine; a job
// that overruns the other job's due time delays it rather than overlapping.
type Scheduler struct {
	dispatcher  Dispatcher
	replenisher Replenisher
	notifier    notifications.Service
	logger      *slog.Logger

	dispatchMinutes []int
	replenishEvery  time.Duration

	now        func() time.Time
	sleepUntil func(ctx context.Context, t time.Time) bool
}

// New builds a scheduler from configuration. The notifier may be nil.
func New(cfg *config.Config, dispatcher Dispatcher, replenisher Replenisher, notifier notifications.Service, logger *slog.Logger) *Scheduler {
	minutes := append([]int(nil), cfg.Schedule.DispatchMinutes...)
	sort.Ints(minutes)
	interval := time.Duration(cfg.Schedule.ReplenishIntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	if notifier == nil {
		notifier = notifications.NewNop()
	}
	return &Scheduler{
		dispatcher:      dispatcher,
		replenisher:     replenisher,
		notifier:        notifier,
		logger:          logging.NewComponentLogger(logger, "scheduler"),
		dispatchMinutes: minutes,
		replenishEvery:  interval,
		now:             time.Now,
		sleepUntil:      sleepUntil,
	}
}

// sleepUntil blocks until t or context cancellation. It reports false when
// the context ended first.
func sleepUntil(ctx context.Context, t time.Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Run executes the control loop until the context is cancelled. Replenishment
// runs once synchronously before the loop starts so a fresh install has
// inventory before the first dispatch tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started",
		logging.Any("dispatch_minutes", s.dispatchMinutes),
		logging.Duration("replenish_interval", s.replenishEvery))

	s.replenish(ctx)
	nextReplenish := s.now().Add(s.replenishEvery)
	nextDispatch := nextDispatchAfter(s.now(), s.dispatchMinutes)

	for {
		if ctx.Err() != nil {
			s.logger.Info("scheduler shutting down")
			return nil
		}

		wake := nextDispatch
		if nextReplenish.Before(wake) {
			wake = nextReplenish
		}
		if !s.sleepUntil(ctx, wake) {
			s.logger.Info("scheduler shutting down")
			return nil
		}

		now := s.now()
		if !now.Before(nextDispatch) {
			s.dispatch(ctx)
			nextDispatch = nextDispatchAfter(s.now(), s.dispatchMinutes)
		}
		if !now.Before(nextReplenish) {
			s.replenish(ctx)
			nextReplenish = s.now().Add(s.replenishEvery)
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	if err := s.dispatcher.CheckAndPost(ctx); err != nil {
		s.logger.Error("dispatch tick failed", logging.Error(err))
		if err := s.notifier.NotifyError(ctx, err, "dispatch tick"); err != nil {
			s.logger.Warn("error notification failed", logging.Error(err))
		}
	}
}

func (s *Scheduler) replenish(ctx context.Context) {
	if err := s.replenisher.EnsureUpcoming(ctx, s.now()); err != nil {
		s.logger.Error("replenishment tick failed", logging.Error(err))
		if err := s.notifier.NotifyError(ctx, err, "replenishment"); err != nil {
			s.logger.Warn("error notification failed", logging.Error(err))
		}
	}
}

// nextDispatchAfter returns the earliest wall-clock instant strictly after
// now whose minute matches one of the configured dispatch minutes.
func nextDispatchAfter(now time.Time, minutes []int) time.Time {
	if len(minutes) == 0 {
		return now.Add(30 * time.Minute)
	}
	var next time.Time
	for _, minute := range minutes {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.Add(time.Hour)
		}
		if next.IsZero() || candidate.Before(next) {
			next = candidate
		}
	}
	return next
}
