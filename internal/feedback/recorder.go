package feedback

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/storage"
)

// FileLog appends transcripts to a text file.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog creates a log writing to path. The file is created on first append.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// Append writes s at the end of the log.
func (l *FileLog) Append(s string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create feedback log directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open feedback log: %w", err)
	}
	if _, err := f.WriteString(s); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write feedback log: %w", err)
	}
	return f.Close()
}

// Recorder stores feedback in the text log and, when set, a FeedbackStore.
type Recorder struct {
	log    *FileLog
	store  storage.FeedbackStore
	now    func() time.Time
	logger *zap.Logger
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithStore also saves each entry to store.
func WithStore(store storage.FeedbackStore) RecorderOption {
	return func(r *Recorder) { r.store = store }
}

// WithLogger sets a logger.
func WithLogger(l *zap.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// NewRecorder creates a recorder appending to log.
func NewRecorder(log *FileLog, opts ...RecorderOption) *Recorder {
	r := &Recorder{log: log, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record saves a rating of results returned for query.
func (r *Recorder) Record(ctx context.Context, query string, results []*models.SearchResult, comment string) (*models.Feedback, error) {
	fb := &models.Feedback{
		ID:        uuid.New().String(),
		CreatedAt: r.now(),
		Query:     query,
		Results:   results,
		Comment:   comment,
	}
	if err := r.log.Append(Transcript(fb)); err != nil {
		return nil, err
	}
	if r.store != nil {
		if err := r.store.SaveFeedback(ctx, fb); err != nil {
			return nil, fmt.Errorf("failed to save feedback: %w", err)
		}
	}
	r.logger.Info("feedback recorded", zap.String("id", fb.ID), zap.String("query", query), zap.Int("results", len(results)))
	return fb, nil
}
