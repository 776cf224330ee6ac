package index

import (
	"path/filepath"
	"testing"
)

func TestBoltStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap", "index.bolt")
	store, err := OpenBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Info(); err == nil {
		t.Error("expected error for empty snapshot")
	}
	if err := store.Save(sampleIndex(), 3); err != nil {
		t.Fatal(err)
	}
	// Saving again replaces the previous contents.
	small := make(InvertedIndex)
	small.Add("图", 0).TitlePositions = []int{0}
	if err := store.Save(small, 1); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(sampleIndex(), 3); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	store, err = OpenBoltStore(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	idx, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if idx.Stats() != sampleIndex().Stats() {
		t.Errorf("Stats = %+v", idx.Stats())
	}

	ps, err := store.Lookup("张三")
	if err != nil {
		t.Fatal(err)
	}
	if ps[2] == nil || ps[2].Score != 1.0 {
		t.Errorf("Lookup: %+v", ps)
	}
	ps, err = store.Lookup("missing")
	if err != nil || ps != nil {
		t.Errorf("Lookup missing: %v, %v", ps, err)
	}

	info, err := store.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Documents != 3 || info.Stats.Terms != 2 || info.Stats.Postings != 3 || info.BuiltAt.IsZero() {
		t.Errorf("Info = %+v", info)
	}
}
