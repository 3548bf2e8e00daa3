package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"shortcast/internal/ledger"
	"shortcast/internal/logging"
	"shortcast/internal/notifications"
)

// Generator produces one video artifact for a 1-based sequence index and a
// target date.
type Generator interface {
	Generate(ctx context.Context, index int, date string) (string, error)
}

// Replenisher tops up the post inventory for tracked dates. A failed unit is
// logged and skipped so one transient renderer error cannot abort the rest of
// a batch.
type Replenisher struct {
	store     *ledger.Store
	generator Generator
	notifier  notifications.Service
	startHour int
	target    int
	logger    *slog.Logger
}

// New constructs a replenisher. The notifier may be nil.
func New(store *ledger.Store, generator Generator, notifier notifications.Service, startHour, target int, logger *slog.Logger) *Replenisher {
	return &Replenisher{
		store:     store,
		generator: generator,
		notifier:  notifier,
		startHour: startHour,
		target:    target,
		logger:    logging.NewComponentLogger(logger, "inventory"),
	}
}

// EnsureUpcoming checks today's and tomorrow's inventory against the
// configured target. The two dates are handled independently; a failure on
// one does not stop the other.
func (r *Replenisher) EnsureUpcoming(ctx context.Context, now time.Time) error {
	var firstErr error
	for _, date := range []string{
		now.Format(ledger.DateLayout),
		now.AddDate(0, 0, 1).Format(ledger.DateLayout),
	} {
		if _, err := r.Ensure(ctx, date, r.target); err != nil {
			r.logger.Error("replenishment failed",
				logging.String(logging.FieldDate, date),
				logging.Error(err),
			)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Ensure tops the given date up to target posts and returns how many were
// added. When the date already holds target or more posts it is a no-op: no
// generation calls, no write.
func (r *Replenisher) Ensure(ctx context.Context, date string, target int) (int, error) {
	schedule, migrated, err := r.store.Load()
	if err != nil {
		return 0, err
	}

	posts := schedule[date]
	current := len(posts)
	if current >= target {
		r.logger.Debug("inventory sufficient",
			logging.String(logging.FieldDate, date),
			logging.Int("have", current),
			logging.Int("target", target),
		)
		return 0, nil
	}

	deficit := target - current
	r.logger.Info("replenishing inventory",
		logging.String(logging.FieldDate, date),
		logging.Int("have", current),
		logging.Int("target", target),
		logging.Int("deficit", deficit),
	)

	added := 0
	for i := 0; i < deficit; i++ {
		select {
		case <-ctx.Done():
			return added, ctx.Err()
		default:
		}

		index := current + i + 1
		videoPath, err := r.generator.Generate(ctx, index, date)
		if err != nil {
			r.logger.Error("video generation failed, skipping unit",
				logging.String(logging.FieldDate, date),
				logging.Int("index", index),
				logging.Error(err),
			)
			continue
		}

		slot := ledger.FormatSlot(r.startHour + current + i)
		posts = append(posts, ledger.Post{
			VideoPath: videoPath,
			Caption:   fmt.Sprintf("Daily Motivation #%d #motivation #quotes #fyp", index),
			Time:      slot,
			Status:    ledger.StatusPending,
		})
		added++
	}

	if added == 0 && !migrated {
		if r.notifier != nil {
			_ = r.notifier.NotifyReplenishShortfall(ctx, date, current, target)
		}
		return 0, nil
	}

	schedule[date] = posts
	if err := r.store.Save(schedule); err != nil {
		return added, err
	}

	total := len(posts)
	if r.notifier != nil {
		if total < target {
			_ = r.notifier.NotifyReplenishShortfall(ctx, date, total, target)
		} else if added > 0 {
			_ = r.notifier.NotifyBatchReady(ctx, date, added, total)
		}
	}

	r.logger.Info("replenishment complete",
		logging.String(logging.FieldDate, date),
		logging.Int("added", added),
		logging.Int("total", total),
	)
	return added, nil
}
