package segment

import (
	"unicode"
	"unicode/utf8"
)

// DictSegmenter is a forward maximum-matching segmenter over a fixed word list.
// Runs of whitespace and runs of letters/digits outside the CJK range become
// single tokens; anything else not covered by a dictionary word is split into
// single runes. With an empty word list it degrades to per-character
// segmentation of CJK text.
type DictSegmenter struct {
	words   map[string]struct{}
	maxRune int
}

// NewDictSegmenter creates a segmenter that prefers the longest word in words.
func NewDictSegmenter(words []string) *DictSegmenter {
	d := &DictSegmenter{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		if n < 2 {
			continue
		}
		d.words[w] = struct{}{}
		if n > d.maxRune {
			d.maxRune = n
		}
	}
	return d
}

// Segment splits text; the concatenation of the result equals text.
func (d *DictSegmenter) Segment(text string) []string {
	runes := []rune(text)
	var tokens []string
	for i := 0; i < len(runes); {
		if n := d.longestWord(runes[i:]); n > 0 {
			tokens = append(tokens, string(runes[i:i+n]))
			i += n
			continue
		}
		j := i + 1
		switch {
		case unicode.IsSpace(runes[i]):
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
		case isAlnum(runes[i]):
			for j < len(runes) && isAlnum(runes[j]) {
				j++
			}
		}
		tokens = append(tokens, string(runes[i:j]))
		i = j
	}
	return tokens
}

func (d *DictSegmenter) longestWord(runes []rune) int {
	max := d.maxRune
	if max > len(runes) {
		max = len(runes)
	}
	for n := max; n >= 2; n-- {
		if _, ok := d.words[string(runes[:n])]; ok {
			return n
		}
	}
	return 0
}

// isAlnum matches letters and digits encoded in at most two UTF-8 bytes,
// which excludes CJK ideographs.
func isAlnum(r rune) bool {
	return utf8.RuneLen(r) <= 2 && (unicode.IsLetter(r) || unicode.IsNumber(r))
}
