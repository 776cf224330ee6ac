package main

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/segment"
)

func TestSearchArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"图神经网络", "-limit", "5"},
			expected: []string{"-limit", "5", "图神经网络"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-limit", "5", "图神经网络"},
			expected: []string{"-limit", "5", "图神经网络"},
		},
		{
			name:     "query only returns unchanged",
			args:     []string{"图神经网络"},
			expected: []string{"图神经网络"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
		{
			name:     "multiple positionals then flags",
			args:     []string{"深度学习", "推荐", "-output", "json"},
			expected: []string{"-output", "json", "深度学习", "推荐"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchArgsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("searchArgsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"知识图谱"}, "知识图谱"},
		{"multiple words", []string{"深度学习", "推荐"}, "深度学习 推荐"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSearchQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildSearchQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestLoadConfig_defaultPathMissing(t *testing.T) {
	dir := t.TempDir()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != "" {
		t.Errorf("resolved = %q, want empty for built-in defaults", resolved)
	}
	if cfg.Search.TopK != 10 {
		t.Errorf("TopK = %d, want 10", cfg.Search.TopK)
	}
}

func TestLoadConfig_explicitPathMissing(t *testing.T) {
	_, _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestNewSegmenter_fallback(t *testing.T) {
	seg, err := newSegmenter(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := seg.(*segment.DictSegmenter); !ok {
		t.Fatalf("segmenter = %T, want *segment.DictSegmenter", seg)
	}
	got := seg.Segment("图谱")
	if !reflect.DeepEqual(got, []string{"图", "谱"}) {
		t.Errorf("Segment() = %v", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

// testConfig lays out a small corpus with config in a temp dir.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "papers.json"), `[
  {"title": "图神经网络", "author": ["张三"], "date": "2021", "abstract": "图模型", "keyword": ["图"], "url": "u0"},
  {"title": "深度学习", "author": ["李四"], "date": "2022", "abstract": "学习方法", "keyword": ["学习"], "url": "u1"}
]`)
	writeFile(t, filepath.Join(dir, "stop.txt"), "的\n")
	configPath := filepath.Join(dir, "config.yaml")
	writeFile(t, configPath, `
corpus:
  path: papers.json
index:
  path: out/re_idx.json
  scores_path: out/raw_scores.tsv
  bolt_path: out/snapshot.db
segmenter:
  dictionary: missing.txt
  stopwords: stop.txt
feedback:
  log_path: feedback.log
  database_path: ":memory:"
`)
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestBuildAndQuery(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()

	res, err := buildIndex(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if res.Documents != 2 {
		t.Errorf("Documents = %d, want 2", res.Documents)
	}
	for _, p := range []string{cfg.Index.Path, cfg.Index.ScoresPath, cfg.Index.BoltPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact %s: %v", p, err)
		}
	}

	for _, fromSnapshot := range []bool{false, true} {
		components, err := initializeComponents(cfg, zap.NewNop(), fromSnapshot)
		if err != nil {
			t.Fatalf("snapshot=%v: %v", fromSnapshot, err)
		}

		resp, err := components.Engine.Search(ctx, &models.SearchQuery{Query: "李四"})
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Results) != 1 || resp.Results[0].DocID != 1 {
			t.Fatalf("snapshot=%v: results = %+v, want doc 1 only", fromSnapshot, resp.Results)
		}
		if resp.Results[0].Score != 50 {
			t.Errorf("author score = %v, want 50", resp.Results[0].Score)
		}

		resp, err = components.Engine.Search(ctx, &models.SearchQuery{Query: "图"})
		if err != nil {
			t.Fatal(err)
		}
		if len(resp.Results) != 1 || resp.Results[0].DocID != 0 {
			t.Errorf("snapshot=%v: results = %+v, want doc 0 only", fromSnapshot, resp.Results)
		}
		components.Close()
	}
}

func TestCollectStatus(t *testing.T) {
	cfg := testConfig(t)
	ctx := context.Background()
	res, err := buildIndex(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	status, err := collectStatus(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := res.Index.Stats()
	if status.Documents != 2 || status.Terms != want.Terms || status.Postings != want.Postings {
		t.Errorf("status = %+v, want 2 documents and %+v", status, want)
	}
	if status.Snapshot == nil || status.Snapshot.Documents != 2 {
		t.Errorf("snapshot = %+v", status.Snapshot)
	}
	if status.Feedback == nil || *status.Feedback != 0 {
		t.Errorf("feedback = %v, want 0", status.Feedback)
	}
	if status.DiskUsageBytes <= 0 {
		t.Errorf("DiskUsageBytes = %d", status.DiskUsageBytes)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "config.yaml")
	if err := writeDefaultConfig(path, false); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Search.AuthorWeight != 50 {
		t.Errorf("AuthorWeight = %v, want 50", cfg.Search.AuthorWeight)
	}
	want := filepath.Join(filepath.Dir(path), "data", "papers.json")
	if cfg.Corpus.Path != want {
		t.Errorf("Corpus.Path = %q, want %q", cfg.Corpus.Path, want)
	}
	if err := writeDefaultConfig(path, false); err == nil {
		t.Error("expected error when config exists")
	}
	if err := writeDefaultConfig(path, true); err != nil {
		t.Errorf("force overwrite: %v", err)
	}
}
