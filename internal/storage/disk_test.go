package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatArtifacts(t *testing.T) {
	dir := t.TempDir()
	index := filepath.Join(dir, "index.json")
	if err := os.WriteFile(index, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	snap := filepath.Join(dir, "snap")
	if err := os.Mkdir(snap, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(snap, "a"), []byte("abcd"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := StatArtifacts([]Artifact{
		{Name: "index", Path: index},
		{Name: "snapshot", Path: snap},
		{Name: "scores", Path: filepath.Join(dir, "missing.tsv")},
		{Name: "unset"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		bytes  int64
		exists bool
	}{
		{"index", 3, true},
		{"snapshot", 4, true},
		{"scores", 0, false},
		{"unset", 0, false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got[i].Name != tt.name {
				t.Fatalf("order changed: got %s", got[i].Name)
			}
			if got[i].Bytes != tt.bytes || got[i].Exists != tt.exists {
				t.Errorf("got bytes=%d exists=%v, want %d %v", got[i].Bytes, got[i].Exists, tt.bytes, tt.exists)
			}
		})
	}

	if total := TotalBytes(got); total != 7 {
		t.Errorf("TotalBytes = %d, want 7", total)
	}
}
