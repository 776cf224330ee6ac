package index

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// InvertedIndex maps a term to its postings. It is built once and read-only afterwards.
type InvertedIndex map[string]Postings

// Stats summarizes an index.
type Stats struct {
	Terms    int `json:"terms"`
	Postings int `json:"postings"`
}

// Posting returns the posting for (term, docID), or nil.
func (idx InvertedIndex) Posting(term string, docID int) *Posting {
	return idx[term][docID]
}

// Add returns the posting for (term, docID), creating an empty one on first touch.
func (idx InvertedIndex) Add(term string, docID int) *Posting {
	ps, ok := idx[term]
	if !ok {
		ps = make(Postings)
		idx[term] = ps
	}
	p, ok := ps[docID]
	if !ok {
		p = NewPosting()
		ps[docID] = p
	}
	return p
}

// Terms returns all terms in sorted order.
func (idx InvertedIndex) Terms() []string {
	terms := make([]string, 0, len(idx))
	for t := range idx {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}

// Stats counts terms and postings.
func (idx InvertedIndex) Stats() Stats {
	s := Stats{Terms: len(idx)}
	for _, ps := range idx {
		s.Postings += len(ps)
	}
	return s
}

// ValidateDocIDs checks that every document id refers to a corpus of numDocs records.
func (idx InvertedIndex) ValidateDocIDs(numDocs int) error {
	for term, ps := range idx {
		for id := range ps {
			if id >= numDocs {
				return fmt.Errorf("%w: term %q references document %d, corpus has %d", ErrMalformedIndex, term, id, numDocs)
			}
		}
	}
	return nil
}

// Encode writes the index as JSON. Non-ASCII terms are written verbatim.
func Encode(w io.Writer, idx InvertedIndex) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

// Decode reads a JSON index, failing on any malformed posting.
func Decode(r io.Reader) (InvertedIndex, error) {
	var idx InvertedIndex
	if err := json.NewDecoder(r).Decode(&idx); err != nil {
		if errors.Is(err, ErrMalformedIndex) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if idx == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedIndex)
	}
	return idx, nil
}

// WriteFile writes the index to path, creating parent directories as needed.
func WriteFile(path string, idx InvertedIndex) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create index file: %w", err)
	}
	w := bufio.NewWriter(f)
	if err := Encode(w, idx); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode index: %w", err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ReadFile loads the index at path.
func ReadFile(path string) (InvertedIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	defer f.Close()
	idx, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}
