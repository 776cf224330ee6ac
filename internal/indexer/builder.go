package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/segment"
)

// Builder runs the index build stages.
type Builder struct {
	analyzer *Analyzer
	workers  int
	logger   *zap.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets a logger for stage progress.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithWorkers bounds the goroutines used for document analysis.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) { b.workers = n }
}

// NewBuilder creates a builder using seg and stop for title and abstract analysis.
func NewBuilder(seg segment.Segmenter, stop segment.Stopwords, opts ...BuilderOption) *Builder {
	b := &Builder{
		analyzer: NewAnalyzer(seg, stop),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Result is the output of a build.
type Result struct {
	Index     index.InvertedIndex
	Scores    *TermScores
	Documents int
}

// Build analyzes docs, scores every term and assembles the index.
func (b *Builder) Build(ctx context.Context, docs []models.Document) (*Result, error) {
	start := time.Now()
	fields, err := b.analyzer.Analyze(ctx, docs, b.workers)
	if err != nil {
		return nil, fmt.Errorf("analyze documents: %w", err)
	}
	b.logger.Info("documents analyzed", zap.Int("documents", len(docs)), zap.Duration("took", time.Since(start)))

	start = time.Now()
	scores := ScoreTerms(fields)
	b.logger.Info("terms scored", zap.Int("terms", scores.Len()), zap.Duration("took", time.Since(start)))

	start = time.Now()
	idx := Assemble(fields, scores)
	stats := idx.Stats()
	b.logger.Info("index assembled",
		zap.Int("terms", stats.Terms),
		zap.Int("postings", stats.Postings),
		zap.Duration("took", time.Since(start)),
	)
	return &Result{Index: idx, Scores: scores, Documents: len(docs)}, nil
}

// Outputs names the build artifacts. Empty paths are skipped, except IndexPath.
type Outputs struct {
	IndexPath  string
	ScoresPath string
	BoltPath   string
}

// Write serializes the result to the configured outputs.
func (r *Result) Write(out Outputs) error {
	if out.IndexPath == "" {
		return fmt.Errorf("index path is required")
	}
	if err := index.WriteFile(out.IndexPath, r.Index); err != nil {
		return err
	}
	if out.ScoresPath != "" {
		if err := writeScoresFile(out.ScoresPath, r.Scores); err != nil {
			return fmt.Errorf("write scores: %w", err)
		}
	}
	if out.BoltPath != "" {
		store, err := index.OpenBoltStore(out.BoltPath)
		if err != nil {
			return err
		}
		if err := store.Save(r.Index, r.Documents); err != nil {
			_ = store.Close()
			return fmt.Errorf("save snapshot: %w", err)
		}
		if err := store.Close(); err != nil {
			return err
		}
	}
	return nil
}

func writeScoresFile(path string, scores *TermScores) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteScores(f, scores); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
