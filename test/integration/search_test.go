// Package integration provides end-to-end tests over the on-disk build artifacts.
package integration

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/scholar/internal/config"
	"github.com/hyperjump/scholar/internal/index"
	"github.com/hyperjump/scholar/internal/indexer"
	"github.com/hyperjump/scholar/internal/models"
	"github.com/hyperjump/scholar/internal/search"
	"github.com/hyperjump/scholar/internal/segment"
	"github.com/hyperjump/scholar/internal/storage"
	"github.com/hyperjump/scholar/test/e2e"
)

func TestIntegration_SnapshotMatchesJSONIndex(t *testing.T) {
	dir := t.TempDir()
	corpus := e2e.BuildCorpus()
	seg := segment.NewDictSegmenter(corpus.Words)
	stop := segment.NewStopwords(corpus.Stopwords...)
	ctx := context.Background()

	res, err := indexer.NewBuilder(seg, stop).Build(ctx, corpus.Documents)
	if err != nil {
		t.Fatal(err)
	}
	out := indexer.Outputs{
		IndexPath:  filepath.Join(dir, "re_idx.json"),
		ScoresPath: filepath.Join(dir, "raw_scores.tsv"),
		BoltPath:   filepath.Join(dir, "snapshot.db"),
	}
	if err := res.Write(out); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := index.ReadFile(out.IndexPath)
	if err != nil {
		t.Fatal(err)
	}
	store, err := index.OpenBoltStore(out.BoltPath)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	fromBolt, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(fromJSON, fromBolt) {
		t.Fatal("bolt snapshot differs from JSON index")
	}
	info, err := store.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Documents != corpus.TotalDocs || info.Stats != res.Index.Stats() {
		t.Errorf("snapshot info = %+v", info)
	}

	jsonEngine, err := search.NewEngine(corpus.Documents, fromJSON, seg, stop, &config.SearchConfig{})
	if err != nil {
		t.Fatal(err)
	}
	boltEngine, err := search.NewEngine(corpus.Documents, fromBolt, seg, stop, &config.SearchConfig{})
	if err != nil {
		t.Fatal(err)
	}
	for _, tc := range corpus.TestCases {
		a, err := jsonEngine.Search(ctx, &models.SearchQuery{Query: tc.Query})
		if err != nil {
			t.Fatal(err)
		}
		b, err := boltEngine.Search(ctx, &models.SearchQuery{Query: tc.Query})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(a.Results, b.Results) {
			t.Errorf("query %q: results differ between JSON and snapshot index", tc.Query)
		}
	}
}

func TestIntegration_ScoresFile(t *testing.T) {
	dir := t.TempDir()
	corpus := e2e.BuildCorpus()
	seg := segment.NewDictSegmenter(corpus.Words)
	stop := segment.NewStopwords(corpus.Stopwords...)

	res, err := indexer.NewBuilder(seg, stop).Build(context.Background(), corpus.Documents)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "out", "raw_scores.tsv")
	if err := res.Write(indexer.Outputs{IndexPath: filepath.Join(dir, "out", "re_idx.json"), ScoresPath: path}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	if !sc.Scan() || sc.Text() != "term\ttf\tidf\traw_score\tfinal_score" {
		t.Fatalf("header = %q", sc.Text())
	}
	rows := 0
	for sc.Scan() {
		if n := len(strings.Split(sc.Text(), "\t")); n != 5 {
			t.Errorf("row %q has %d columns", sc.Text(), n)
		}
		rows++
	}
	if rows != res.Scores.Len() {
		t.Errorf("rows = %d, want %d", rows, res.Scores.Len())
	}

	arts, err := storage.StatArtifacts([]storage.Artifact{
		{Name: "index", Path: filepath.Join(dir, "out", "re_idx.json")},
		{Name: "out", Path: filepath.Join(dir, "out")},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !arts[0].Exists || arts[1].Bytes <= arts[0].Bytes {
		t.Errorf("artifacts = %+v", arts)
	}
}
