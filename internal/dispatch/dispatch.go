package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"shortcast/internal/history"
	"shortcast/internal/ledger"
	"shortcast/internal/logging"
	"shortcast/internal/services"
	"shortcast/internal/uploader"
)

// Publisher is the upload-session surface the dispatcher drives. The real
// implementation wraps a long-lived browser session.
type Publisher interface {
	EnsureReady(ctx context.Context) error
	VerifyLogin(ctx context.Context) error
	Upload(ctx context.Context, date, slot, videoPath, caption string) error
}

// Recorder receives one audit row per attempted post.
type Recorder interface {
	Record(ctx context.Context, attempt history.Attempt) (int64, error)
}

// Dispatcher scans the ledger for due posts and publishes them.
type Dispatcher struct {
	store     *ledger.Store
	publisher Publisher
	recorder  Recorder
	logger    *slog.Logger

	now func() time.Time
}

// New builds a dispatcher. recorder may be nil when no audit trail is wanted.
func New(store *ledger.Store, publisher Publisher, recorder Recorder, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		store:     store,
		publisher: publisher,
		recorder:  recorder,
		logger:    logging.NewComponentLogger(logger, "dispatch"),
		now:       time.Now,
	}
}

// CheckAndPost runs one dispatch tick: publish every due pending post for
// today. Individual upload failures leave the post pending for the next tick;
// only a ledger read failure aborts the tick.
func (d *Dispatcher) CheckAndPost(ctx context.Context) error {
	tickID := uuid.NewString()
	now := d.now()
	date := now.Format(ledger.DateLayout)
	log := d.logger.With(
		logging.String(logging.FieldTickID, tickID),
		logging.String(logging.FieldDate, date))

	schedule, migrated, err := d.store.Load()
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	posts, ok := schedule[date]
	if !ok {
		log.Info("no posts scheduled for today")
		if migrated {
			return d.persist(schedule, log)
		}
		return nil
	}

	changed := false
	sessionReady := false
	for i := range posts {
		post := &posts[i]
		if post.Status == ledger.StatusUploaded {
			continue
		}
		if _, _, slotErr := post.Slot(); slotErr != nil {
			log.Warn("skipping post with malformed time",
				logging.String(logging.FieldSlot, post.Time),
				logging.Error(slotErr))
			continue
		}
		if !post.Due(now) {
			continue
		}

		postLog := log.With(
			logging.String(logging.FieldSlot, post.Time),
			logging.String(logging.FieldVideo, post.VideoPath))

		// The session is brought up once per tick and shared by every
		// due post in it.
		if !sessionReady {
			if err := d.publisher.EnsureReady(ctx); err != nil {
				log.Error("browser session unavailable, leaving due posts pending", logging.Error(err))
				break
			}
			sessionReady = true
		}

		// Login is verified per record, not per tick, so an operator who
		// logs in during one record's grace window rescues the rest.
		if err := d.publisher.VerifyLogin(ctx); err != nil {
			if errors.Is(err, services.ErrLoginRequired) {
				postLog.Error("login required, post stays pending", logging.Error(err))
			} else {
				postLog.Error("login verification failed, post stays pending", logging.Error(err))
			}
			d.record(ctx, tickID, date, *post, err, log)
			continue
		}

		if err := d.publisher.Upload(ctx, date, post.Time, post.VideoPath, post.Caption); err != nil {
			postLog.Error("upload failed, post stays pending", logging.Error(err))
			d.record(ctx, tickID, date, *post, err, log)
			continue
		}
		post.Status = ledger.StatusUploaded
		changed = true
		postLog.Info("post published")
		d.record(ctx, tickID, date, *post, nil, log)
	}

	if changed || migrated {
		schedule[date] = posts
		return d.persist(schedule, log)
	}
	return nil
}

func (d *Dispatcher) persist(schedule ledger.Schedule, log *slog.Logger) error {
	if err := d.store.Save(schedule); err != nil {
		log.Error("ledger save failed", logging.Error(err))
		return err
	}
	return nil
}

func (d *Dispatcher) record(ctx context.Context, tickID, date string, post ledger.Post, attemptErr error, log *slog.Logger) {
	if d.recorder == nil {
		return
	}
	attempt := history.Attempt{
		TickID:    tickID,
		Date:      date,
		Slot:      post.Time,
		VideoPath: post.VideoPath,
		Caption:   post.Caption,
		Outcome:   history.OutcomeSuccess,
	}
	if attemptErr != nil {
		attempt.Outcome = history.OutcomeFailure
		attempt.Error = attemptErr.Error()
		var uploadErr *uploader.Error
		if errors.As(attemptErr, &uploadErr) {
			attempt.ScreenshotPath = uploadErr.ScreenshotPath
		}
	}
	if _, err := d.recorder.Record(ctx, attempt); err != nil {
		log.Warn("history record failed", logging.Error(err))
	}
}
