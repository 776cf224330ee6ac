package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/feedback"
	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/indexer"
	"github.com/hyperjump/scholar/internal/search"
	"github.com/hyperjump/scholar/internal/segment"
	"github.com/hyperjump/scholar/internal/storage"
)

// Components holds initialized query-side dependencies.
type Components struct {
	Engine   *search.Engine
	Recorder *feedback.Recorder
	Store    storage.FeedbackStore
}

// Close releases resources.
func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
}

// newSegmenter loads the sego dictionary. Without one it falls back to
// per-character segmentation so the tools keep working on a bare checkout.
func newSegmenter(dictionary string, logger *zap.Logger) (segment.Segmenter, error) {
	seg, err := segment.NewSegoSegmenter(dictionary)
	if err == nil {
		return seg, nil
	}
	if !errors.Is(err, segment.ErrNoDictionary) {
		return nil, err
	}
	logger.Warn("segmenter dictionary unavailable, using per-character segmentation",
		zap.String("dictionary", dictionary),
		zap.Error(err),
	)
	return segment.NewDictSegmenter(nil), nil
}

// loadText returns the segmenter and stopword set shared by build and query.
func loadText(cfg *config.Config, logger *zap.Logger) (segment.Segmenter, segment.Stopwords, error) {
	seg, err := newSegmenter(cfg.Segmenter.Dictionary, logger)
	if err != nil {
		return nil, nil, err
	}
	stop, err := segment.LoadStopwords(cfg.Segmenter.Stopwords)
	if err != nil {
		return nil, nil, err
	}
	return seg, stop, nil
}

// buildIndex runs the full build from the configured corpus and writes every
// configured artifact.
func buildIndex(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*indexer.Result, error) {
	docs, err := storage.LoadCorpus(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	logger.Info("corpus loaded", zap.String("path", cfg.Corpus.Path), zap.Int("documents", len(docs)))

	seg, stop, err := loadText(cfg, logger)
	if err != nil {
		return nil, err
	}
	b := indexer.NewBuilder(seg, stop,
		indexer.WithLogger(logger),
		indexer.WithWorkers(cfg.Build.Workers),
	)
	res, err := b.Build(ctx, docs)
	if err != nil {
		return nil, err
	}
	out := indexer.Outputs{
		IndexPath:  cfg.Index.Path,
		ScoresPath: cfg.Index.ScoresPath,
		BoltPath:   cfg.Index.BoltPath,
	}
	if err := res.Write(out); err != nil {
		return nil, fmt.Errorf("write build outputs: %w", err)
	}
	logger.Info("index written",
		zap.String("index", out.IndexPath),
		zap.String("scores", out.ScoresPath),
		zap.String("snapshot", out.BoltPath),
	)
	return res, nil
}

// loadIndex reads the JSON index, or the bolt snapshot when fromSnapshot is set.
func loadIndex(cfg *config.Config, fromSnapshot bool) (index.InvertedIndex, error) {
	if !fromSnapshot {
		return index.ReadFile(cfg.Index.Path)
	}
	if cfg.Index.BoltPath == "" {
		return nil, fmt.Errorf("index.bolt_path is not configured")
	}
	store, err := index.OpenBoltStore(cfg.Index.BoltPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	return store.Load()
}

// initializeComponents loads corpus and index and wires the engine together
// with the feedback recorder.
func initializeComponents(cfg *config.Config, logger *zap.Logger, fromSnapshot bool) (*Components, error) {
	docs, err := storage.LoadCorpus(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	idx, err := loadIndex(cfg, fromSnapshot)
	if err != nil {
		return nil, err
	}
	seg, stop, err := loadText(cfg, logger)
	if err != nil {
		return nil, err
	}
	engine, err := search.NewEngine(docs, idx, seg, stop, &cfg.Search, search.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	stats := engine.Stats()
	logger.Info("engine ready",
		zap.Int("documents", stats.Documents),
		zap.Int("terms", stats.Terms),
		zap.Int("postings", stats.Postings),
	)

	c := &Components{Engine: engine}
	recOpts := []feedback.RecorderOption{feedback.WithLogger(logger)}
	if cfg.Feedback.DatabasePath != "" {
		store, err := storage.NewSQLiteStorage(cfg.Feedback.DatabasePath)
		if err != nil {
			return nil, err
		}
		c.Store = store
		recOpts = append(recOpts, feedback.WithStore(store))
	}
	c.Recorder = feedback.NewRecorder(feedback.NewFileLog(cfg.Feedback.LogPath), recOpts...)
	return c, nil
}

// artifacts lists the files reported by status.
func artifacts(cfg *config.Config) []storage.Artifact {
	return []storage.Artifact{
		{Name: "corpus", Path: cfg.Corpus.Path},
		{Name: "index", Path: cfg.Index.Path},
		{Name: "scores", Path: cfg.Index.ScoresPath},
		{Name: "snapshot", Path: cfg.Index.BoltPath},
		{Name: "feedback_log", Path: cfg.Feedback.LogPath},
		{Name: "feedback_db", Path: cfg.Feedback.DatabasePath},
	}
}
