// Package indexer builds the scored inverted index from a paper corpus.
//
// A build runs four stages in sequence: per-document field analysis, corpus-wide
// term scoring, index assembly and serialization. Each stage consumes the
// complete output of the previous one.
package indexer

import (
	"context"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/segment"
)

// nbsp is a scraping artifact that appears as a keyword entry in crawled records.
const nbsp = "&nbsp"

// PositionMap maps a term to its ordered positions within one field.
type PositionMap map[string][]int

// Count returns the total number of recorded positions.
func (m PositionMap) Count() int {
	n := 0
	for _, poses := range m {
		n += len(poses)
	}
	return n
}

// DocumentFields holds the analyzed fields of one document.
type DocumentFields struct {
	Title    PositionMap
	Abstract PositionMap
	Author   PositionMap
	Keyword  PositionMap
	// TitleTerms and AbstractTerms list distinct terms in first-occurrence order.
	TitleTerms    []string
	AbstractTerms []string
	// Text is the filtered abstract tokens joined by single spaces.
	Text string
}

// Field returns the position map for f.
func (d *DocumentFields) Field(f models.Field) PositionMap {
	switch f {
	case models.FieldTitle:
		return d.Title
	case models.FieldAbstract:
		return d.Abstract
	case models.FieldAuthor:
		return d.Author
	case models.FieldKeyword:
		return d.Keyword
	}
	return nil
}

// Analyzer segments documents and records term positions per field.
type Analyzer struct {
	seg  segment.Segmenter
	stop segment.Stopwords
}

// NewAnalyzer creates an analyzer. stop may be nil.
func NewAnalyzer(seg segment.Segmenter, stop segment.Stopwords) *Analyzer {
	return &Analyzer{seg: seg, stop: stop}
}

// AnalyzeDocument records positions for every field of doc.
func (a *Analyzer) AnalyzeDocument(doc *models.Document) *DocumentFields {
	title, titleTerms, _ := a.analyzeText(doc.Title)
	abstract, abstractTerms, tokens := a.analyzeText(doc.Abstract)
	return &DocumentFields{
		Title:         title,
		Abstract:      abstract,
		Author:        a.analyzeList(doc.Author, false),
		Keyword:       a.analyzeList(doc.Keyword, true),
		TitleTerms:    titleTerms,
		AbstractTerms: abstractTerms,
		Text:          strings.Join(tokens, " "),
	}
}

// analyzeText segments text and records dense positions over the tokens left
// after stopword filtering. Whitespace-only text is not segmented.
func (a *Analyzer) analyzeText(text string) (PositionMap, []string, []string) {
	m := make(PositionMap)
	if strings.TrimSpace(text) == "" {
		return m, nil, nil
	}
	tokens := a.stop.Filter(a.seg.Segment(text))
	var terms []string
	for pos, tok := range tokens {
		if _, seen := m[tok]; !seen {
			terms = append(terms, tok)
		}
		m[tok] = append(m[tok], pos)
	}
	return m, terms, tokens
}

// analyzeList records each trimmed entry at its index in the raw list.
func (a *Analyzer) analyzeList(entries []string, keyword bool) PositionMap {
	m := make(PositionMap)
	for pos, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" || a.stop.Contains(e) || (keyword && e == nbsp) {
			continue
		}
		m[e] = append(m[e], pos)
	}
	return m
}

// Analyze runs AnalyzeDocument over docs using up to workers goroutines.
// Results are in corpus order. workers <= 0 uses GOMAXPROCS.
func (a *Analyzer) Analyze(ctx context.Context, docs []models.Document, workers int) ([]*DocumentFields, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	out := make([]*DocumentFields, len(docs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range docs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = a.AnalyzeDocument(&docs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
