// Package index defines the scored inverted index and its on-disk forms.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMalformedIndex is returned when an index file does not match the expected shape.
var ErrMalformedIndex = errors.New("malformed index")

// Posting records where a term occurs in one document and the weight it carries there.
// All four position lists are always present; absent fields are empty, never nil.
type Posting struct {
	TitlePositions    []int   `json:"title_positions"`
	AbstractPositions []int   `json:"abstract_positions"`
	AuthorPositions   []int   `json:"author_positions"`
	KeywordPositions  []int   `json:"keyword_positions"`
	Score             float64 `json:"score"`
}

// NewPosting returns a Posting with empty position lists.
func NewPosting() *Posting {
	return &Posting{
		TitlePositions:    []int{},
		AbstractPositions: []int{},
		AuthorPositions:   []int{},
		KeywordPositions:  []int{},
	}
}

// Empty reports whether no field has a position.
func (p *Posting) Empty() bool {
	return len(p.TitlePositions) == 0 && len(p.AbstractPositions) == 0 &&
		len(p.AuthorPositions) == 0 && len(p.KeywordPositions) == 0
}

type rawPosting struct {
	TitlePositions    *[]int   `json:"title_positions"`
	AbstractPositions *[]int   `json:"abstract_positions"`
	AuthorPositions   *[]int   `json:"author_positions"`
	KeywordPositions  *[]int   `json:"keyword_positions"`
	Score             *float64 `json:"score"`
}

// UnmarshalJSON requires every position list and the score to be present.
// Negative positions are rejected.
func (p *Posting) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("%w: null posting", ErrMalformedIndex)
	}
	var raw rawPosting
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	lists := []struct {
		name string
		src  *[]int
		dst  *[]int
	}{
		{"title_positions", raw.TitlePositions, &p.TitlePositions},
		{"abstract_positions", raw.AbstractPositions, &p.AbstractPositions},
		{"author_positions", raw.AuthorPositions, &p.AuthorPositions},
		{"keyword_positions", raw.KeywordPositions, &p.KeywordPositions},
	}
	for _, l := range lists {
		if l.src == nil || *l.src == nil {
			return fmt.Errorf("%w: missing %s", ErrMalformedIndex, l.name)
		}
		for _, pos := range *l.src {
			if pos < 0 {
				return fmt.Errorf("%w: negative position %d in %s", ErrMalformedIndex, pos, l.name)
			}
		}
		*l.dst = *l.src
	}
	if raw.Score == nil {
		return fmt.Errorf("%w: missing score", ErrMalformedIndex)
	}
	p.Score = *raw.Score
	return nil
}

// Postings maps document id to the term's Posting in that document.
type Postings map[int]*Posting

// DocIDs returns the document ids in ascending order.
func (ps Postings) DocIDs() []int {
	ids := make([]int, 0, len(ps))
	for id := range ps {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON writes document ids as string keys in ascending order.
func (ps Postings) MarshalJSON() ([]byte, error) {
	m := make(map[string]*Posting, len(ps))
	for id, p := range ps {
		m[strconv.Itoa(id)] = p
	}
	return json.Marshal(m)
}

// UnmarshalJSON parses stringified document ids back to integers.
func (ps *Postings) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return fmt.Errorf("%w: null postings", ErrMalformedIndex)
	}
	var m map[string]*Posting
	if err := json.Unmarshal(data, &m); err != nil {
		if errors.Is(err, ErrMalformedIndex) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	out := make(Postings, len(m))
	for key, p := range m {
		id, err := strconv.Atoi(key)
		if err != nil || id < 0 {
			return fmt.Errorf("%w: invalid document id %q", ErrMalformedIndex, key)
		}
		if p == nil {
			return fmt.Errorf("%w: null posting for document %d", ErrMalformedIndex, id)
		}
		out[id] = p
	}
	*ps = out
	return nil
}
