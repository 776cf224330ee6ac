package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/boltdb/bolt"
)

var (
	postingsBucket = []byte("postings")
	metaBucket     = []byte("meta")
	docsKey        = []byte("documents")
	builtAtKey     = []byte("built_at")
)

// BoltStore is a bolt snapshot of an index: one key per term in the
// "postings" bucket, plus build metadata.
type BoltStore struct {
	db *bolt.DB
}

// SnapshotInfo describes a stored snapshot.
type SnapshotInfo struct {
	Documents int       `json:"documents"`
	BuiltAt   time.Time `json:"built_at"`
	Stats     Stats     `json:"stats"`
}

// OpenBoltStore opens or creates the snapshot file at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Save replaces the stored snapshot with idx, built from numDocs documents.
func (s *BoltStore) Save(idx InvertedIndex, numDocs int) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{postingsBucket, metaBucket} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}
		pb, err := tx.CreateBucket(postingsBucket)
		if err != nil {
			return err
		}
		for _, term := range idx.Terms() {
			v, err := json.Marshal(idx[term])
			if err != nil {
				return fmt.Errorf("encode postings for %q: %w", term, err)
			}
			if err := pb.Put([]byte(term), v); err != nil {
				return err
			}
		}
		mb, err := tx.CreateBucket(metaBucket)
		if err != nil {
			return err
		}
		if err := mb.Put(docsKey, []byte(strconv.Itoa(numDocs))); err != nil {
			return err
		}
		return mb.Put(builtAtKey, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// Load reads the whole snapshot into memory.
func (s *BoltStore) Load() (InvertedIndex, error) {
	idx := make(InvertedIndex)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(postingsBucket)
		if b == nil {
			return fmt.Errorf("%w: snapshot has no postings", ErrMalformedIndex)
		}
		return b.ForEach(func(k, v []byte) error {
			var ps Postings
			if err := json.Unmarshal(v, &ps); err != nil {
				return fmt.Errorf("term %q: %w", k, err)
			}
			idx[string(k)] = ps
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Lookup returns the postings for a single term without loading the whole snapshot.
func (s *BoltStore) Lookup(term string) (Postings, error) {
	var ps Postings
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(postingsBucket)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(term))
		if v == nil {
			return nil
		}
		return json.Unmarshal(v, &ps)
	})
	return ps, err
}

// Info returns the snapshot metadata.
func (s *BoltStore) Info() (SnapshotInfo, error) {
	var info SnapshotInfo
	err := s.db.View(func(tx *bolt.Tx) error {
		mb := tx.Bucket(metaBucket)
		pb := tx.Bucket(postingsBucket)
		if mb == nil || pb == nil {
			return fmt.Errorf("%w: snapshot is empty", ErrMalformedIndex)
		}
		n, err := strconv.Atoi(string(mb.Get(docsKey)))
		if err != nil {
			return fmt.Errorf("%w: bad document count", ErrMalformedIndex)
		}
		info.Documents = n
		if t, err := time.Parse(time.RFC3339, string(mb.Get(builtAtKey))); err == nil {
			info.BuiltAt = t
		}
		return pb.ForEach(func(_, v []byte) error {
			info.Stats.Terms++
			var ps Postings
			if err := json.Unmarshal(v, &ps); err != nil {
				return err
			}
			info.Stats.Postings += len(ps)
			return nil
		})
	})
	return info, err
}

// Close closes the snapshot file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
