// Package segment splits text into language tokens and filters stopwords.
package segment

import "errors"

// ErrNoDictionary is returned when a dictionary segmenter is configured
// without a readable dictionary file.
var ErrNoDictionary = errors.New("segmenter dictionary not available")

// Segmenter splits text into an ordered sequence of tokens. Concatenating the
// tokens reproduces the input text, so callers can rejoin them without separators.
type Segmenter interface {
	Segment(text string) []string
}
