// Package jobstore persists episode jobs and their progress timelines in
// SQLite so finished and failed runs survive daemon restarts.
package jobstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/podwavelabs/podwave-core/internal/config"
)

// Job statuses move strictly forward: pending, running, done, failed.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Job is one recorded episode request.
type Job struct {
	ID         string
	ArticleURL string
	Title      string
	Status     string
	Filename   string
	Path       string
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ProgressEvent is one entry of a job's progress timeline.
type ProgressEvent struct {
	ID        int64
	JobID     string
	Percent   int
	Message   string
	CreatedAt time.Time
}

// Store wraps a SQLite-backed job history store.
type Store struct {
	db    *sql.DB
	cfg   config.JobStoreConfig
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the job store according to config.
func Open(ctx context.Context, cfg config.JobStoreConfig, log *slog.Logger) (*Store, error) {
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, cfg: cfg, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.VacuumOnStart {
		if err := s.vacuum(ctx); err != nil {
			log.Warn("job store vacuum failed", slog.String("error", err.Error()))
		}
	}

	if err := s.Prune(ctx); err != nil {
		log.Warn("job store prune on start failed", slog.String("error", err.Error()))
	}

	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS jobs (
    job_id TEXT PRIMARY KEY,
    article_url TEXT,
    title TEXT,
    status TEXT NOT NULL,
    filename TEXT,
    path TEXT,
    error TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS job_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    job_id TEXT NOT NULL,
    percent INTEGER NOT NULL,
    message TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY(job_id) REFERENCES jobs(job_id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_job_events_job_created ON job_events(job_id, created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *Store) vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// Close releases underlying resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// CreateJob records a new job in pending state.
func (s *Store) CreateJob(ctx context.Context, jobID, articleURL, title string) error {
	now := s.clock().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs(job_id, article_url, title, status, created_at, updated_at)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		jobID, articleURL, title, StatusPending, now, now)
	return err
}

// SetRunning marks a job as in progress.
func (s *Store) SetRunning(ctx context.Context, jobID string) error {
	return s.setStatus(ctx, jobID, StatusRunning, "", "", "")
}

// SetDone records a finished job and where its artifact landed.
func (s *Store) SetDone(ctx context.Context, jobID, filename, path string) error {
	return s.setStatus(ctx, jobID, StatusDone, filename, path, "")
}

// SetFailed records a terminal failure.
func (s *Store) SetFailed(ctx context.Context, jobID, errMsg string) error {
	return s.setStatus(ctx, jobID, StatusFailed, "", "", errMsg)
}

func (s *Store) setStatus(ctx context.Context, jobID, status, filename, path, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?,
		        filename = CASE WHEN ? != '' THEN ? ELSE filename END,
		        path = CASE WHEN ? != '' THEN ? ELSE path END,
		        error = CASE WHEN ? != '' THEN ? ELSE error END,
		        updated_at = ?
		 WHERE job_id = ?`,
		status, filename, filename, path, path, errMsg, errMsg, s.clock().UTC(), jobID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("job %s not found", jobID)
	}
	return nil
}

// AppendProgress writes one progress event into a job's timeline.
func (s *Store) AppendProgress(ctx context.Context, jobID string, percent int, message string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO job_events(job_id, percent, message, created_at) VALUES(?, ?, ?, ?)`,
		jobID, percent, message, s.clock().UTC())
	return err
}

// GetJob retrieves one job by id.
func (s *Store) GetJob(ctx context.Context, jobID string) (Job, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT job_id, article_url, title, status,
		        COALESCE(filename, ''), COALESCE(path, ''), COALESCE(error, ''),
		        created_at, updated_at
		 FROM jobs WHERE job_id = ?`, jobID)
	return scanJob(row)
}

// ListJobs retrieves up to limit jobs, newest first.
func (s *Store) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT job_id, article_url, title, status,
		        COALESCE(filename, ''), COALESCE(path, ''), COALESCE(error, ''),
		        created_at, updated_at
		 FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// ListProgress retrieves up to limit progress events for a job, oldest first.
func (s *Store) ListProgress(ctx context.Context, jobID string, limit int) ([]ProgressEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, job_id, percent, COALESCE(message, ''), created_at
		 FROM job_events WHERE job_id = ? ORDER BY created_at ASC, id ASC LIMIT ?`, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []ProgressEvent
	for rows.Next() {
		var e ProgressEvent
		var created string
		if err := rows.Scan(&e.ID, &e.JobID, &e.Percent, &e.Message, &created); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Prune applies configured retention (called on startup and can be scheduled).
func (s *Store) Prune(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if s.cfg.RetentionDays > 0 {
		cutoff := s.clock().Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
		if _, err = tx.ExecContext(ctx, `DELETE FROM jobs WHERE created_at < ?`, cutoff.UTC()); err != nil {
			return err
		}
	}
	if s.cfg.MaxJobs > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM jobs WHERE job_id IN (
			SELECT job_id FROM jobs ORDER BY created_at DESC LIMIT -1 OFFSET ?
		)`, s.cfg.MaxJobs)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	var created, updated string
	if err := row.Scan(&job.ID, &job.ArticleURL, &job.Title, &job.Status,
		&job.Filename, &job.Path, &job.Error, &created, &updated); err != nil {
		return Job{}, err
	}
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		job.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updated); err == nil {
		job.UpdatedAt = ts
	}
	return job, nil
}
