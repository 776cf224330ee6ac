package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/search"
	"github.com/hyperjump/scholar/internal/storage"
)

// search runs a query, sharing the result between identical concurrent requests.
// The shared response must not be modified.
func (s *Server) search(r *http.Request, query models.SearchQuery) (*models.SearchResponse, error) {
	key := strconv.Itoa(query.Limit) + "\x00" + query.Query
	start := time.Now()
	v, err, shared := s.searches.Do(key, func() (interface{}, error) {
		return s.engine.Search(r.Context(), &query)
	})
	s.metrics.SearchLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.SearchQueriesTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	resp := v.(*models.SearchResponse)
	s.metrics.SearchResultsCount.Observe(float64(len(resp.Results)))
	if len(resp.Results) == 0 {
		s.metrics.SearchQueriesTotal.WithLabelValues("zero_result").Inc()
	} else {
		s.metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	if shared {
		s.logger.Debug("search result shared", zap.String("query", query.Query))
	}
	return resp, nil
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("limit", query.Limit))
	response, err := s.search(r, query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.engine.Document(id)
	if errors.Is(err, search.ErrDocumentNotFound) {
		s.respondError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

type feedbackRequest struct {
	Query   string `json:"query"`
	Limit   int    `json:"limit,omitempty"`
	Comment string `json:"comment"`
}

// handleFeedback re-runs the rated query so the stored entry carries the
// results the client was shown.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	if s.recorder == nil {
		s.respondError(w, http.StatusNotImplemented, "feedback not enabled")
		return
	}
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Comment == "" {
		s.respondError(w, http.StatusBadRequest, "comment is required")
		return
	}
	resp, err := s.search(r, models.SearchQuery{Query: req.Query, Limit: req.Limit})
	if err != nil {
		s.metrics.FeedbackTotal.WithLabelValues("error").Inc()
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	fb, err := s.recorder.Record(r.Context(), req.Query, resp.Results, req.Comment)
	if err != nil {
		s.metrics.FeedbackTotal.WithLabelValues("error").Inc()
		s.logger.Error("record feedback failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.metrics.FeedbackTotal.WithLabelValues("recorded").Inc()
	s.respondJSON(w, http.StatusCreated, map[string]string{"id": fb.ID, "status": "recorded"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats := s.engine.Stats()
	resp := map[string]interface{}{
		"documents": stats.Documents,
		"terms":     stats.Terms,
		"postings":  stats.Postings,
	}
	if s.store != nil {
		n, err := s.store.CountFeedback(r.Context())
		if err != nil {
			s.logger.Error("status: count feedback failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["feedback"] = n
	}
	if len(s.artifacts) > 0 {
		artifacts, err := storage.StatArtifacts(s.artifacts)
		if err != nil {
			s.respondError(w, http.StatusInternalServerError, fmt.Sprintf("stat artifacts: %v", err))
			return
		}
		resp["artifacts"] = artifacts
		resp["disk_usage_bytes"] = storage.TotalBytes(artifacts)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
