// Package server provides the HTTP API for scholar.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/feedback"
	"github.com/hyperjump/scholar/internal/search"
	"github.com/hyperjump/scholar/internal/storage"
)

// Server is the HTTP server for the scholar API.
type Server struct {
	engine    *search.Engine
	recorder  *feedback.Recorder
	store     storage.FeedbackStore
	artifacts []storage.Artifact
	config    *config.ServerConfig
	logger    *zap.Logger
	metrics   *Metrics
	searches  singleflight.Group
	server    *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder enables POST /api/v1/feedback.
func WithRecorder(r *feedback.Recorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithFeedbackStore reports the stored feedback count in status.
func WithFeedbackStore(store storage.FeedbackStore) Option {
	return func(s *Server) { s.store = store }
}

// WithArtifacts reports the given files in status.
func WithArtifacts(a []storage.Artifact) Option {
	return func(s *Server) { s.artifacts = a }
}

// WithMetrics sets the metrics collectors; by default a fresh set is created.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server with the given dependencies.
func NewServer(engine *search.Engine, cfg *config.ServerConfig, logger *zap.Logger, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	stats := engine.Stats()
	s.metrics.CorpusDocuments.Set(float64(stats.Documents))
	s.metrics.IndexTerms.Set(float64(stats.Terms))
	return s
}

// Router returns the HTTP handler with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/api/v1/search", s.handleSearch)
	r.Get("/api/v1/documents/{id}", s.handleGetDocument)
	r.Post("/api/v1/feedback", s.handleFeedback)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
