package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"shortcast/internal/services"
)

// DateLayout is the calendar-date key format used by the ledger.
const DateLayout = "2006-01-02"

// Status represents the lifecycle of a scheduled post.
type Status string

const (
	StatusPending  Status = "pending"
	StatusUploaded Status = "uploaded"
)

// Post is one scheduled unit of content. The video artifact it references is
// produced externally and not owned by this system.
type Post struct {
	VideoPath string `json:"video_path"`
	Caption   string `json:"caption"`
	Time      string `json:"time"`
	Status    Status `json:"status"`
}

// Slot parses the post's scheduled time-of-day.
func (p Post) Slot() (hour, minute int, err error) {
	return ParseSlot(p.Time)
}

// Due reports whether the post is pending and its scheduled time-of-day has
// passed relative to now. Posts with malformed times are never due; callers
// that need to log the parse failure should call Slot directly.
func (p Post) Due(now time.Time) bool {
	if p.Status == StatusUploaded {
		return false
	}
	hour, minute, err := p.Slot()
	if err != nil {
		return false
	}
	return now.Hour() > hour || (now.Hour() == hour && now.Minute() >= minute)
}

// ParseSlot parses an HH:MM 24-hour time-of-day.
func ParseSlot(value string) (hour, minute int, err error) {
	hourPart, minutePart, ok := strings.Cut(strings.TrimSpace(value), ":")
	if !ok {
		return 0, 0, services.Wrap(services.ErrFormat, "ledger", "parse slot", fmt.Sprintf("malformed time %q", value), nil)
	}
	hour, err = strconv.Atoi(hourPart)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrFormat, "ledger", "parse slot", fmt.Sprintf("malformed hour in %q", value), nil)
	}
	minute, err = strconv.Atoi(minutePart)
	if err != nil {
		return 0, 0, services.Wrap(services.ErrFormat, "ledger", "parse slot", fmt.Sprintf("malformed minute in %q", value), nil)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, services.Wrap(services.ErrFormat, "ledger", "parse slot", fmt.Sprintf("time %q out of range", value), nil)
	}
	return hour, minute, nil
}

// FormatSlot renders a whole-hour slot, wrapping modulo 24.
func FormatSlot(hour int) string {
	hour %= 24
	if hour < 0 {
		hour += 24
	}
	return fmt.Sprintf("%02d:00", hour)
}

// Schedule maps ISO calendar dates to ordered post sequences. Order is
// generation order and doubles as time-slot order.
type Schedule map[string][]Post

// Store persists the schedule as a pretty-printed JSON file. The file is read
// fully on every load and rewritten fully on every save; there is no
// cross-process transaction guarding it against an external writer.
type Store struct {
	path string
}

// NewStore returns a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted schedule. A missing file yields an empty schedule.
// Legacy single-record date entries are normalized to one-element sequences
// and records without a status default to pending; migrated reports whether
// any such upgrade happened so callers can force a write-back. Malformed
// content is a propagated error: silently dropping the ledger would discard
// upload state.
func (s *Store) Load() (Schedule, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Schedule{}, false, nil
		}
		return nil, false, fmt.Errorf("read ledger: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, services.Wrap(services.ErrFormat, "ledger", "parse", s.path, err)
	}

	schedule := make(Schedule, len(raw))
	migrated := false
	for date, entry := range raw {
		posts, entryMigrated, err := normalizeEntry(entry)
		if err != nil {
			return nil, false, services.Wrap(services.ErrFormat, "ledger", "parse", fmt.Sprintf("%s: entry for %s", s.path, date), err)
		}
		schedule[date] = posts
		migrated = migrated || entryMigrated
	}
	return schedule, migrated, nil
}

func normalizeEntry(entry json.RawMessage) ([]Post, bool, error) {
	var posts []Post
	if err := json.Unmarshal(entry, &posts); err == nil {
		migrated := false
		for i := range posts {
			if posts[i].Status == "" {
				posts[i].Status = StatusPending
				migrated = true
			}
		}
		return posts, migrated, nil
	}

	// Legacy shape: a single post object instead of a sequence.
	var single Post
	if err := json.Unmarshal(entry, &single); err != nil {
		return nil, false, err
	}
	if single.Status == "" {
		single.Status = StatusPending
	}
	return []Post{single}, true, nil
}

// Save rewrites the entire schedule pretty-printed. The write goes through a
// temp file and rename so a concurrent reader never observes a partial file.
func (s *Store) Save(schedule Schedule) error {
	data, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".posts-*.json")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace ledger: %w", err)
	}
	return nil
}
