// Package history keeps a local record of transcription runs in SQLite.
// Recording is best-effort: a history failure never fails a run.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Run statuses.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one recorded transcription invocation.
type Run struct {
	ID          string
	AudioPath   string
	ModelSize   string
	Device      string
	ComputeType string
	Language    string
	DurationSec float64
	ElapsedSec  float64
	Chars       int
	Segments    int
	Status      string
	Error       string
	CreatedAt   time.Time
}

// Store holds the database connection.
type Store struct {
	db *sql.DB
}

// Open connects to the history database at path, creating the file and
// schema when needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one run. A missing ID or CreatedAt is filled in.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.Language == "" {
		run.Language = "auto"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, audio_path, model_size, device, compute_type, language,
			duration_sec, elapsed_sec, chars, segments, status, error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.AudioPath, run.ModelSize, run.Device, run.ComputeType,
		run.Language, run.DurationSec, run.ElapsedSec, run.Chars,
		run.Segments, run.Status, run.Error, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, audio_path, model_size, device, compute_type, language,
		       duration_sec, elapsed_sec, chars, segments, status, error, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID, &run.AudioPath, &run.ModelSize, &run.Device,
			&run.ComputeType, &run.Language, &run.DurationSec,
			&run.ElapsedSec, &run.Chars, &run.Segments, &run.Status,
			&run.Error, &run.CreatedAt,
		); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
