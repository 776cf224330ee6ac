package index

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func sampleIndex() InvertedIndex {
	idx := make(InvertedIndex)
	p := idx.Add("图", 0)
	p.TitlePositions = []int{0}
	p.Score = 0.42
	p = idx.Add("图", 2)
	p.AbstractPositions = []int{1, 4}
	p.Score = 0.42
	p = idx.Add("张三", 2)
	p.AuthorPositions = []int{0}
	p.Score = 1.0
	return idx
}

func TestInvertedIndex_AddReusesPosting(t *testing.T) {
	idx := make(InvertedIndex)
	a := idx.Add("t", 1)
	b := idx.Add("t", 1)
	if a != b {
		t.Error("Add should return the existing posting")
	}
	if idx.Posting("t", 1) != a || idx.Posting("t", 2) != nil || idx.Posting("u", 1) != nil {
		t.Error("Posting lookup mismatch")
	}
}

func TestInvertedIndex_Stats(t *testing.T) {
	s := sampleIndex().Stats()
	if s.Terms != 2 || s.Postings != 3 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestInvertedIndex_ValidateDocIDs(t *testing.T) {
	idx := sampleIndex()
	if err := idx.ValidateDocIDs(3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := idx.ValidateDocIDs(2); !errors.Is(err, ErrMalformedIndex) {
		t.Errorf("expected ErrMalformedIndex, got %v", err)
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, sampleIndex()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"张三"`) {
		t.Errorf("terms should be written unescaped: %s", buf.String())
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	p := got.Posting("图", 2)
	if p == nil || len(p.AbstractPositions) != 2 || p.Score != 0.42 || len(p.TitlePositions) != 0 {
		t.Errorf("decoded posting: %+v", p)
	}
	if got.Posting("张三", 2).Score != 1.0 {
		t.Error("author score lost")
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{"", "[]", "null", `{"t": null}`, `{"t": {"0": {"score": 1}}}`} {
		if _, err := Decode(strings.NewReader(in)); !errors.Is(err, ErrMalformedIndex) {
			t.Errorf("Decode(%q): expected ErrMalformedIndex, got %v", in, err)
		}
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "index.json")
	if err := WriteFile(path, sampleIndex()); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stats() != sampleIndex().Stats() {
		t.Errorf("stats changed after round trip: %+v", got.Stats())
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
