package storage

import (
	"os"
	"path/filepath"
)

// Artifact is a named on-disk file produced or consumed by scholar
// (corpus, index, scores, snapshot, feedback database).
type Artifact struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
	Exists bool   `json:"exists"`
}

// StatArtifacts fills in Bytes and Exists for each artifact. Directories are
// summed recursively. Missing paths are reported with Exists false; any other
// stat error is returned.
func StatArtifacts(artifacts []Artifact) ([]Artifact, error) {
	out := make([]Artifact, len(artifacts))
	for i, a := range artifacts {
		out[i] = a
		if a.Path == "" {
			continue
		}
		n, ok, err := pathSize(a.Path)
		if err != nil {
			return nil, err
		}
		out[i].Bytes, out[i].Exists = n, ok
	}
	return out, nil
}

// TotalBytes sums the sizes of existing artifacts.
func TotalBytes(artifacts []Artifact) int64 {
	var total int64
	for _, a := range artifacts {
		total += a.Bytes
	}
	return total
}

func pathSize(p string) (int64, bool, error) {
	info, err := os.Stat(p)
	if os.IsNotExist(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !info.IsDir() {
		return info.Size(), true, nil
	}
	var total int64
	err = filepath.WalkDir(p, func(_ string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		total += fi.Size()
		return nil
	})
	return total, true, err
}
