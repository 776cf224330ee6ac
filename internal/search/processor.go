package search

import (
	"strings"

	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/segment"
)

// queryPlan is what a query string resolves to before scoring.
type queryPlan struct {
	// Terms are the segmented, stopword-filtered query tokens. Duplicates are kept.
	Terms    []string
	Authors  []string
	Keywords []string
}

// entryList holds the distinct non-empty author or keyword strings of a
// corpus in first-seen order.
type entryList []string

func collectEntries(docs []models.Document, pick func(*models.Document) []string) entryList {
	seen := make(map[string]struct{})
	var out entryList
	for i := range docs {
		for _, e := range pick(&docs[i]) {
			if e == "" {
				continue
			}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// containedIn returns the entries that occur verbatim inside query.
func (l entryList) containedIn(query string) []string {
	var out []string
	for _, e := range l {
		if strings.Contains(query, e) {
			out = append(out, e)
		}
	}
	return out
}

func processQuery(query string, seg segment.Segmenter, stop segment.Stopwords, authors, keywords entryList) queryPlan {
	if strings.TrimSpace(query) == "" {
		return queryPlan{}
	}
	return queryPlan{
		Terms:    stop.Filter(seg.Segment(query)),
		Authors:  authors.containedIn(query),
		Keywords: keywords.containedIn(query),
	}
}
