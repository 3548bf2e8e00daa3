package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"shortcast/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; the database is an append-only audit trail, so a mismatched file
// can simply be deleted.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Outcome classifies a recorded upload attempt.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Attempt is one row of the upload audit trail.
type Attempt struct {
	ID             int64
	TickID         string
	Date           string
	Slot           string
	VideoPath      string
	Caption        string
	Outcome        Outcome
	Error          string
	ScreenshotPath string
	CreatedAt      time.Time
}

// Store persists upload attempts in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.HistoryDBPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record appends an attempt to the audit trail and returns its row ID.
func (s *Store) Record(ctx context.Context, attempt Attempt) (int64, error) {
	createdAt := attempt.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO upload_attempts (
            tick_id, post_date, slot, video_path, caption,
            outcome, error, screenshot_path, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.TickID,
		attempt.Date,
		attempt.Slot,
		attempt.VideoPath,
		attempt.Caption,
		string(attempt.Outcome),
		nullableString(attempt.Error),
		nullableString(attempt.ScreenshotPath),
		createdAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit attempts, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tick_id, post_date, slot, video_path, caption,
                outcome, error, screenshot_path, created_at
           FROM upload_attempts
          ORDER BY id DESC
          LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ByDate returns every attempt recorded for a ledger date, oldest first.
func (s *Store) ByDate(ctx context.Context, date string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tick_id, post_date, slot, video_path, caption,
                outcome, error, screenshot_path, created_at
           FROM upload_attempts
          WHERE post_date = ?
          ORDER BY id ASC`, date)
	if err != nil {
		return nil, fmt.Errorf("query attempts by date: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	var attempts []Attempt
	for rows.Next() {
		var (
			attempt    Attempt
			outcome    string
			errText    sql.NullString
			screenshot sql.NullString
			createdAt  string
		)
		if err := rows.Scan(
			&attempt.ID,
			&attempt.TickID,
			&attempt.Date,
			&attempt.Slot,
			&attempt.VideoPath,
			&attempt.Caption,
			&outcome,
			&errText,
			&screenshot,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempt.Outcome = Outcome(outcome)
		attempt.Error = errText.String
		attempt.ScreenshotPath = screenshot.String
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			attempt.CreatedAt = parsed
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
