package segment

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewSegoSegmenter_missingDictionary(t *testing.T) {
	_, err := NewSegoSegmenter(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNoDictionary) {
		t.Errorf("expected ErrNoDictionary, got %v", err)
	}
	if _, err := NewSegoSegmenter(""); !errors.Is(err, ErrNoDictionary) {
		t.Errorf("empty path: expected ErrNoDictionary, got %v", err)
	}
}

func TestSegoSegmenter_Segment(t *testing.T) {
	dir := t.TempDir()
	dict := filepath.Join(dir, "dict.txt")
	content := "神经网络 1000 n\n图 500 n\n模型 800 n\n"
	if err := os.WriteFile(dict, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	seg, err := NewSegoSegmenter(dict)
	if err != nil {
		t.Fatal(err)
	}
	text := "图神经网络Model"
	tokens := seg.Segment(text)
	if strings.Join(tokens, "") != text {
		t.Errorf("rejoin = %q, want %q", strings.Join(tokens, ""), text)
	}
	found := false
	for _, tok := range tokens {
		if tok == "神经网络" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dictionary word in %q", tokens)
	}
	if seg.Segment("") != nil {
		t.Error("empty text should yield no tokens")
	}
}
