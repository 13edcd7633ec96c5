// Package jobs maintains a SQLite index of ingest jobs so commands can
// list and inspect pipeline runs without scanning the jobs directory.
package jobs

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"storyglot/internal/services"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the
// schema changes; stale databases must be deleted and rebuilt.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by a different
// schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Job statuses tracked by the index. Ingest writes draft or failed,
// line generation moves a job to tts, later stages to complete.
const (
	StatusDraft    = "draft"
	StatusFailed   = "failed"
	StatusTTS      = "tts"
	StatusComplete = "complete"
)

// Entry is one indexed job.
type Entry struct {
	RunID     string
	JobID     string
	Title     string
	Slug      string
	Dir       string
	Status    string
	LineCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store manages job persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the jobs database under the given
// log directory.
func Open(logDir string) (*Store, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}

	dbPath := filepath.Join(logDir, "jobs.db")
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
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Record indexes a freshly ingested job. Re-recording the same job id
// updates its status and directory instead of failing.
func (s *Store) Record(ctx context.Context, jobID, title, slug, dir, status string) (*Entry, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	runID := uuid.NewString()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (run_id, job_id, title, slug, dir, status, line_count, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, 0, ?, ?)
         ON CONFLICT(job_id) DO UPDATE SET
             title = excluded.title,
             slug = excluded.slug,
             dir = excluded.dir,
             status = excluded.status,
             updated_at = excluded.updated_at`,
		runID, jobID, title, slug, dir, status, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("record job: %w", err)
	}
	return s.GetByJobID(ctx, jobID)
}

// UpdateStatus transitions a job and optionally records how many lines
// its latest generation produced. A negative lineCount leaves the
// stored count alone.
func (s *Store) UpdateStatus(ctx context.Context, jobID, status string, lineCount int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)

	var res sql.Result
	var err error
	if lineCount < 0 {
		res, err = s.db.ExecContext(ctx,
			"UPDATE jobs SET status = ?, updated_at = ? WHERE job_id = ?",
			status, now, jobID)
	} else {
		res, err = s.db.ExecContext(ctx,
			"UPDATE jobs SET status = ?, line_count = ?, updated_at = ? WHERE job_id = ?",
			status, lineCount, now, jobID)
	}
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "jobs", "update-status", fmt.Sprintf("job %s is not indexed", jobID), nil)
	}
	return nil
}

// GetByJobID fetches one job by its job id.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, job_id, title, slug, dir, status, line_count, created_at, updated_at
         FROM jobs WHERE job_id = ?`, jobID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "jobs", "get", fmt.Sprintf("job %s is not indexed", jobID), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return entry, nil
}

// List returns indexed jobs newest first, optionally filtered by
// status. An empty status returns everything.
func (s *Store) List(ctx context.Context, status string) ([]*Entry, error) {
	query := `SELECT run_id, job_id, title, slug, dir, status, line_count, created_at, updated_at
              FROM jobs`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return entries, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var entry Entry
	var createdAt, updatedAt string
	if err := row.Scan(&entry.RunID, &entry.JobID, &entry.Title, &entry.Slug,
		&entry.Dir, &entry.Status, &entry.LineCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	entry.CreatedAt = parseTimestamp(createdAt)
	entry.UpdatedAt = parseTimestamp(updatedAt)
	return &entry, nil
}

func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
