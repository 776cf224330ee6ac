package search

import (
	"sort"

	"github.com/hyperjump/scholar/internal/models"
)

// hit records that term matched field of a document.
type hit struct {
	Field models.Field
	Term  string
}

type docScore struct {
	DocID int
	Score float64
	Hits  []hit
}

// accumulator sums weighted contributions per document and remembers the
// order in which documents were first touched.
type accumulator struct {
	byDoc map[int]*docScore
	order []*docScore
}

func newAccumulator() *accumulator {
	return &accumulator{byDoc: make(map[int]*docScore)}
}

func (a *accumulator) add(docID int, field models.Field, term string, score float64) {
	d, ok := a.byDoc[docID]
	if !ok {
		d = &docScore{DocID: docID}
		a.byDoc[docID] = d
		a.order = append(a.order, d)
	}
	d.Score += score
	d.Hits = append(d.Hits, hit{Field: field, Term: term})
}

// ranked returns at most k documents by descending score. Equal scores keep
// first-touch order.
func (a *accumulator) ranked(k int) []*docScore {
	out := make([]*docScore, len(a.order))
	copy(out, a.order)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// terms returns the distinct terms hit in field, in hit order.
func (d *docScore) terms(field models.Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, h := range d.Hits {
		if h.Field != field {
			continue
		}
		if _, ok := seen[h.Term]; ok {
			continue
		}
		seen[h.Term] = struct{}{}
		out = append(out, h.Term)
	}
	return out
}
