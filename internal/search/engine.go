// Package search ranks papers against a free-text query using the scored
// inverted index and highlights the matched terms.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/segment"
)

// ErrDocumentNotFound is returned by Document for an id outside the corpus.
var ErrDocumentNotFound = errors.New("document not found")

// Engine answers queries over a corpus and its index. It is immutable after
// NewEngine and safe for concurrent use.
type Engine struct {
	docs     []models.Document
	idx      index.InvertedIndex
	seg      segment.Segmenter
	stop     segment.Stopwords
	config   config.SearchConfig
	authors  entryList
	keywords entryList
	hl       *Highlighter
	logger   *zap.Logger
}

// Stats describes the data an Engine serves.
type Stats struct {
	Documents int `json:"documents"`
	Terms     int `json:"terms"`
	Postings  int `json:"postings"`
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for per-query debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. It fails when the index references documents
// outside docs. Zero-valued fields of cfg take their defaults.
func NewEngine(
	docs []models.Document,
	idx index.InvertedIndex,
	seg segment.Segmenter,
	stop segment.Stopwords,
	cfg *config.SearchConfig,
	opts ...EngineOption,
) (*Engine, error) {
	if err := idx.ValidateDocIDs(len(docs)); err != nil {
		return nil, err
	}
	c := config.Config{}
	if cfg != nil {
		c.Search = *cfg
	}
	config.ApplyDefaults(&c)

	e := &Engine{
		docs:     docs,
		idx:      idx,
		seg:      seg,
		stop:     stop,
		config:   c.Search,
		authors:  collectEntries(docs, func(d *models.Document) []string { return d.Author }),
		keywords: collectEntries(docs, func(d *models.Document) []string { return d.Keyword }),
		hl:       NewHighlighter(seg, c.Search.HighlightOpen, c.Search.HighlightClose),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Search ranks documents for query.Query and returns at most query.Limit
// highlighted results. An empty or all-stopword query returns no results.
func (e *Engine) Search(ctx context.Context, query *models.SearchQuery) (*models.SearchResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	query.Validate(e.config.TopK, e.config.MaxLimit)

	plan := processQuery(query.Query, e.seg, e.stop, e.authors, e.keywords)
	acc := e.accumulate(plan)
	ranked := acc.ranked(query.Limit)

	results := make([]*models.SearchResult, len(ranked))
	for i, d := range ranked {
		results[i] = e.render(i+1, d)
	}

	resp := &models.SearchResponse{
		Query:     query.Query,
		Results:   results,
		Total:     len(acc.order),
		QueryTime: time.Since(start).Milliseconds(),
	}
	e.logger.Debug("search",
		zap.String("query", query.Query),
		zap.Strings("terms", plan.Terms),
		zap.Strings("authors", plan.Authors),
		zap.Strings("keywords", plan.Keywords),
		zap.Int("matched", resp.Total),
		zap.Int("returned", len(results)),
	)
	return resp, nil
}

func (e *Engine) accumulate(plan queryPlan) *accumulator {
	acc := newAccumulator()
	for _, term := range plan.Terms {
		ps := e.idx[term]
		for _, id := range ps.DocIDs() {
			p := ps[id]
			if len(p.TitlePositions) > 0 {
				acc.add(id, models.FieldTitle, term, e.config.TitleWeight*p.Score)
			}
			if len(p.AbstractPositions) > 0 {
				acc.add(id, models.FieldAbstract, term, e.config.AbstractWeight*p.Score)
			}
		}
	}
	for _, name := range plan.Authors {
		ps := e.idx[name]
		for _, id := range ps.DocIDs() {
			if p := ps[id]; len(p.AuthorPositions) > 0 {
				acc.add(id, models.FieldAuthor, name, e.config.AuthorWeight*p.Score)
			}
		}
	}
	for _, kw := range plan.Keywords {
		ps := e.idx[kw]
		for _, id := range ps.DocIDs() {
			if p := ps[id]; len(p.KeywordPositions) > 0 {
				acc.add(id, models.FieldKeyword, kw, e.config.KeywordWeight*p.Score)
			}
		}
	}
	return acc
}

func (e *Engine) render(rank int, d *docScore) *models.SearchResult {
	doc := &e.docs[d.DocID]
	return &models.SearchResult{
		Rank:    rank,
		DocID:   d.DocID,
		Score:   d.Score,
		Title:   e.hl.Text(doc.Title, d.terms(models.FieldTitle)),
		Snippet: e.hl.Text(doc.Abstract, d.terms(models.FieldAbstract)),
		URL:     doc.URL,
		Date:    doc.Date,
		Author:  e.hl.List(doc.Author, d.terms(models.FieldAuthor)),
		Keyword: e.hl.List(doc.Keyword, d.terms(models.FieldKeyword)),
	}
}

// Document returns the corpus record with the given id.
func (e *Engine) Document(id int) (*models.Document, error) {
	if id < 0 || id >= len(e.docs) {
		return nil, fmt.Errorf("%w: %d", ErrDocumentNotFound, id)
	}
	doc := e.docs[id]
	return &doc, nil
}

// Stats returns corpus and index sizes.
func (e *Engine) Stats() Stats {
	s := e.idx.Stats()
	return Stats{Documents: len(e.docs), Terms: s.Terms, Postings: s.Postings}
}
