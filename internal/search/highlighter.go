package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/scholar/internal/segment"
)

// Highlighter wraps matched terms in open/close markers.
type Highlighter struct {
	Open  string
	Close string
	seg   segment.Segmenter
}

// NewHighlighter creates a highlighter that re-segments text with seg.
func NewHighlighter(seg segment.Segmenter, open, close string) *Highlighter {
	return &Highlighter{Open: open, Close: close, seg: seg}
}

type chunk struct {
	text   string
	marked bool
}

// Text segments text without stopword filtering and wraps the first unmarked
// token equal to each term, longest term first. Regions already enclosed in
// markers are left untouched, and a term that already has a marked region is
// not wrapped again, so highlighting highlighted text is a no-op.
func (h *Highlighter) Text(text string, terms []string) string {
	if len(terms) == 0 || text == "" {
		return text
	}
	chunks := h.split(text)
	for _, term := range longestFirst(terms) {
		wrapped := h.Open + term + h.Close
		done := false
		for _, c := range chunks {
			if c.marked && c.text == wrapped {
				done = true
				break
			}
		}
		if done {
			continue
		}
		for i := range chunks {
			if !chunks[i].marked && chunks[i].text == term {
				chunks[i] = chunk{text: wrapped, marked: true}
				break
			}
		}
	}
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString(c.text)
	}
	return b.String()
}

// List wraps every entry that equals one of names. Entries already wrapped are kept.
// The input slice is not modified.
func (h *Highlighter) List(entries []string, names []string) []string {
	out := make([]string, len(entries))
	copy(out, entries)
	if len(names) == 0 {
		return out
	}
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	for i, e := range out {
		if _, ok := set[e]; ok {
			out[i] = h.Open + e + h.Close
		}
	}
	return out
}

// split cuts text into marked regions and segmented tokens of the unmarked rest.
func (h *Highlighter) split(text string) []chunk {
	var chunks []chunk
	for text != "" {
		i := strings.Index(text, h.Open)
		j := -1
		if i >= 0 {
			j = strings.Index(text[i+len(h.Open):], h.Close)
		}
		if i < 0 || j < 0 {
			chunks = h.appendTokens(chunks, text)
			break
		}
		end := i + len(h.Open) + j + len(h.Close)
		chunks = h.appendTokens(chunks, text[:i])
		chunks = append(chunks, chunk{text: text[i:end], marked: true})
		text = text[end:]
	}
	return chunks
}

func (h *Highlighter) appendTokens(chunks []chunk, text string) []chunk {
	if text == "" {
		return chunks
	}
	for _, tok := range h.seg.Segment(text) {
		chunks = append(chunks, chunk{text: tok})
	}
	return chunks
}

func longestFirst(terms []string) []string {
	out := make([]string, len(terms))
	copy(out, terms)
	sort.SliceStable(out, func(i, j int) bool {
		return utf8.RuneCountInString(out[i]) > utf8.RuneCountInString(out[j])
	})
	return out
}
