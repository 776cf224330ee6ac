package indexer

import (
	"bufio"
	"fmt"
	"io"
	"math"
)

// TermScore holds the corpus statistics and relevance weight of one term.
type TermScore struct {
	Term  string
	DF    int
	TF    float64
	IDF   float64
	Raw   float64
	Final float64
}

// TermScores is an immutable snapshot of per-term scores.
type TermScores struct {
	scores map[string]*TermScore
	order  []string
}

// Get returns the score of term.
func (ts *TermScores) Get(term string) (TermScore, bool) {
	s, ok := ts.scores[term]
	if !ok {
		return TermScore{}, false
	}
	return *s, true
}

// Len returns the number of scored terms.
func (ts *TermScores) Len() int { return len(ts.order) }

// Each calls fn for each term in first-seen order.
func (ts *TermScores) Each(fn func(TermScore)) {
	for _, t := range ts.order {
		fn(*ts.scores[t])
	}
}

// ScoreTerms computes a TermScore for every term that occurs in a title or
// abstract. Terms are ordered by first occurrence over documents in corpus
// order, title before abstract.
func ScoreTerms(fields []*DocumentFields) *TermScores {
	n := len(fields)
	titleLen := make([]int, n)
	abstractLen := make([]int, n)
	ts := &TermScores{scores: make(map[string]*TermScore)}
	docs := make(map[string][]int)

	for id, f := range fields {
		titleLen[id] = f.Title.Count()
		abstractLen[id] = f.Abstract.Count()
		for _, terms := range [][]string{f.TitleTerms, f.AbstractTerms} {
			for _, term := range terms {
				if _, ok := ts.scores[term]; !ok {
					ts.scores[term] = &TermScore{Term: term}
					ts.order = append(ts.order, term)
				}
				ds := docs[term]
				if len(ds) == 0 || ds[len(ds)-1] != id {
					docs[term] = append(ds, id)
				}
			}
		}
	}

	for _, term := range ts.order {
		s := ts.scores[term]
		s.DF = len(docs[term])
		s.IDF = IDF(n, s.DF)

		var sum float64
		for _, id := range docs[term] {
			count, length := 0, 0
			if poses, ok := fields[id].Title[term]; ok {
				count += len(poses)
				length += titleLen[id]
			}
			if poses, ok := fields[id].Abstract[term]; ok {
				count += len(poses)
				length += abstractLen[id]
			}
			if length == 0 {
				continue
			}
			sum += math.Log(1+float64(count)) / math.Log(1+float64(length))
		}
		s.TF = math.Log(1 + sum)
		s.Raw = math.Log(1 + math.Sqrt(s.TF)*s.IDF*s.IDF*s.IDF)
		s.Final = Squash(s.Raw)
	}
	return ts
}

// IDF is ln(1 + n/(df+1)).
func IDF(n, df int) float64 {
	return math.Log(1 + float64(n)/float64(df+1))
}

// Squash maps a raw score into (0,1) with a sigmoid scaled by 1/3.
func Squash(raw float64) float64 {
	return 2/(1+math.Exp(-raw/3)) - 1
}

// WriteScores writes the diagnostic TSV of term scores.
func WriteScores(w io.Writer, ts *TermScores) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, "term\ttf\tidf\traw_score\tfinal_score"); err != nil {
		return err
	}
	var err error
	ts.Each(func(s TermScore) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(bw, "%s\t%.6f\t%.6f\t%.6f\t%.6f\n", s.Term, s.TF, s.IDF, s.Raw, s.Final)
	})
	if err != nil {
		return err
	}
	return bw.Flush()
}
