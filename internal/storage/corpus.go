package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hyperjump/scholar/internal/models"
)

// ErrMalformedCorpus is returned when the corpus file is not a JSON array of paper records.
var ErrMalformedCorpus = errors.New("malformed corpus")

// LoadCorpus reads the corpus file at path. Each record gets its 0-based
// position as ID; missing author and keyword lists become empty lists.
func LoadCorpus(path string) ([]models.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer f.Close()
	docs, err := DecodeCorpus(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return docs, nil
}

// DecodeCorpus reads a corpus JSON array from r.
func DecodeCorpus(r io.Reader) ([]models.Document, error) {
	var docs []models.Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCorpus, err)
	}
	if docs == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedCorpus)
	}
	for i := range docs {
		docs[i].ID = i
		if docs[i].Author == nil {
			docs[i].Author = []string{}
		}
		if docs[i].Keyword == nil {
			docs[i].Keyword = []string{}
		}
	}
	return docs, nil
}
