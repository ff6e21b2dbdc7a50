package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"cdrip/internal/config"
)

// Status tracks a pipeline run through its stages.
type Status string

const (
	StatusRipping    Status = "ripping"
	StatusRipped     Status = "ripped"
	StatusConverting Status = "converting"
	StatusConverted  Status = "converted"
	StatusTagging    Status = "tagging"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Run is one recorded pipeline invocation.
type Run struct {
	ID           int64
	RunID        string
	Operation    string
	AlbumDir     string
	AlbumTitle   string
	DiscCount    int
	TrackCount   int
	Status       Status
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store manages run history persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.CatalogPath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
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

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	operation TEXT NOT NULL,
	album_dir TEXT NOT NULL,
	album_title TEXT NOT NULL DEFAULT '',
	disc_count INTEGER NOT NULL DEFAULT 0,
	track_count INTEGER NOT NULL DEFAULT 0,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
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

// NewRun inserts a run record in its initial status.
func (s *Store) NewRun(ctx context.Context, runID, operation, albumDir, albumTitle string, initial Status) (*Run, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, operation, album_dir, album_title, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, operation, albumDir, albumTitle, string(initial), timestamp, timestamp)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}

	return &Run{
		ID:         id,
		RunID:      runID,
		Operation:  operation,
		AlbumDir:   albumDir,
		AlbumTitle: albumTitle,
		Status:     initial,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Update persists the run's mutable fields.
func (s *Store) Update(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run required")
	}
	run.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET disc_count = ?, track_count = ?, status = ?, error_message = ?, updated_at = ?
		 WHERE id = ?`,
		run.DiscCount, run.TrackCount, string(run.Status), run.ErrorMessage,
		run.UpdatedAt.Format(time.RFC3339Nano), run.ID)
	if err != nil {
		return fmt.Errorf("update run %d: %w", run.ID, err)
	}
	return nil
}

// MarkFailed transitions the run to failed with the error message and
// persists it.
func (s *Store) MarkFailed(ctx context.Context, run *Run, cause error) error {
	if run == nil {
		return errors.New("run required")
	}
	run.Status = StatusFailed
	if cause != nil {
		run.ErrorMessage = cause.Error()
	}
	return s.Update(ctx, run)
}

// GetByID fetches a single run.
func (s *Store) GetByID(ctx context.Context, id int64) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, run_id, operation, album_dir, album_title, disc_count, track_count,
		        status, error_message, created_at, updated_at
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, operation, album_dir, album_title, disc_count, track_count,
		        status, error_message, created_at, updated_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Stats returns run counts grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM runs GROUP BY status`)
	if err != nil {
		return nil, 0, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	total := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, 0, err
		}
		counts[Status(status)] = count
		total += count
	}
	return counts, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var status, createdAt, updatedAt string
	err := row.Scan(&run.ID, &run.RunID, &run.Operation, &run.AlbumDir, &run.AlbumTitle,
		&run.DiscCount, &run.TrackCount, &status, &run.ErrorMessage, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	run.Status = Status(strings.TrimSpace(status))
	if ts, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
		run.CreatedAt = ts
	}
	if ts, parseErr := time.Parse(time.RFC3339Nano, updatedAt); parseErr == nil {
		run.UpdatedAt = ts
	}
	return &run, nil
}
