package segment

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Stopwords is a set of terms excluded from indexing and querying.
type Stopwords map[string]struct{}

// NewStopwords builds a set from words.
func NewStopwords(words ...string) Stopwords {
	s := make(Stopwords, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

// LoadStopwords reads a newline-delimited stopword file. Lines are trimmed and
// blank lines are skipped.
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer f.Close()

	s := make(Stopwords)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" {
			continue
		}
		s[w] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return s, nil
}

// Contains reports whether w is a stopword. A nil set contains nothing.
func (s Stopwords) Contains(w string) bool {
	_, ok := s[w]
	return ok
}

// Filter drops tokens that are blank after trimming or are stopwords.
// Surviving tokens are returned untrimmed and in their original order.
func (s Stopwords) Filter(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t) == "" || s.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
