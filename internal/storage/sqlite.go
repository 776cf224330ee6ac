package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/scholar/internal/models"
)

// ErrFeedbackNotFound is returned by GetFeedback for an unknown id.
var ErrFeedbackNotFound = errors.New("feedback not found")

// SQLiteStorage implements FeedbackStore using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" opens a private in-memory database.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS feedback (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		results TEXT NOT NULL,
		comment TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SaveFeedback inserts a feedback entry. CreatedAt is set when zero.
func (s *SQLiteStorage) SaveFeedback(ctx context.Context, fb *models.Feedback) error {
	if fb.ID == "" {
		return fmt.Errorf("feedback id is required")
	}
	resultsJSON, err := json.Marshal(fb.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO feedback (id, query, results, comment, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		fb.ID, fb.Query, string(resultsJSON), fb.Comment, fb.CreatedAt,
	)
	return err
}

// GetFeedback returns a feedback entry by ID.
func (s *SQLiteStorage) GetFeedback(ctx context.Context, id string) (*models.Feedback, error) {
	var fb models.Feedback
	var resultsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, query, results, comment, created_at FROM feedback WHERE id = ?`, id,
	).Scan(&fb.ID, &fb.Query, &resultsJSON, &fb.Comment, &fb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrFeedbackNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultsJSON), &fb.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	return &fb, nil
}

// ListFeedback returns feedback entries, newest first.
func (s *SQLiteStorage) ListFeedback(ctx context.Context, offset, limit int) ([]*models.Feedback, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, results, comment, created_at
		 FROM feedback ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Feedback
	for rows.Next() {
		var fb models.Feedback
		var resultsJSON string
		if err := rows.Scan(&fb.ID, &fb.Query, &resultsJSON, &fb.Comment, &fb.CreatedAt); err != nil {
			return nil, err
		}
		_ = json.Unmarshal([]byte(resultsJSON), &fb.Results)
		out = append(out, &fb)
	}
	return out, rows.Err()
}

// CountFeedback returns the number of stored feedback entries.
func (s *SQLiteStorage) CountFeedback(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM feedback`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
