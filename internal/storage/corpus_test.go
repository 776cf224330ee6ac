package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeCorpus(t *testing.T) {
	input := `[
		{"title": "图神经网络综述", "author": ["张三", "李四"], "date": "2021", "abstract": "摘要", "keyword": ["图"], "url": "http://a"},
		{"title": "第二篇", "abstract": ""}
	]`
	docs, err := DecodeCorpus(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(docs))
	}
	for i, d := range docs {
		if d.ID != i {
			t.Errorf("doc %d has ID %d", i, d.ID)
		}
	}
	if docs[0].Author[1] != "李四" || docs[0].URL != "http://a" || docs[0].Date != "2021" {
		t.Errorf("doc 0 fields: %+v", docs[0])
	}
	if docs[1].Author == nil || docs[1].Keyword == nil {
		t.Error("missing lists should decode as empty, not nil")
	}
}

func TestDecodeCorpus_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", "hello"},
		{"object", `{"title": "x"}`},
		{"null", "null"},
		{"wrong field type", `[{"author": "张三"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCorpus(strings.NewReader(tt.input))
			if !errors.Is(err, ErrMalformedCorpus) {
				t.Errorf("expected ErrMalformedCorpus, got %v", err)
			}
		})
	}
}

func TestLoadCorpus(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(`[{"title":"a"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	docs, err := LoadCorpus(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Title != "a" {
		t.Errorf("got %+v", docs)
	}

	if _, err := LoadCorpus(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
