package segment

import (
	"fmt"
	"os"
	"strings"

	"github.com/huichen/sego"
)

// SegoSegmenter segments Chinese text with a sego dictionary.
// It is safe for concurrent use once constructed.
type SegoSegmenter struct {
	seg sego.Segmenter
}

// NewSegoSegmenter loads one or more comma-separated dictionary files.
// Missing files are reported as ErrNoDictionary instead of aborting the process.
func NewSegoSegmenter(dictionaries string) (*SegoSegmenter, error) {
	if strings.TrimSpace(dictionaries) == "" {
		return nil, ErrNoDictionary
	}
	for _, path := range strings.Split(dictionaries, ",") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoDictionary, path, err)
		}
	}
	s := &SegoSegmenter{}
	s.seg.LoadDictionary(dictionaries)
	return s, nil
}

// Segment returns the tokens of text. Token text is sliced from the input by
// byte offsets, so letter case and spacing are preserved.
func (s *SegoSegmenter) Segment(text string) []string {
	if text == "" {
		return nil
	}
	segments := s.seg.Segment([]byte(text))
	tokens := make([]string, 0, len(segments))
	for _, sg := range segments {
		tokens = append(tokens, text[sg.Start():sg.End()])
	}
	return tokens
}
