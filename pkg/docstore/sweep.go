package docstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// IsTempName reports whether name looks like a temporary file left behind by
// an interrupted Write: a dot, the target document name, then the random
// numeric suffix.
func IsTempName(name string) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	idx := strings.LastIndex(name, ".json")
	if idx <= 0 {
		return false
	}
	tail := name[idx+len(".json"):]
	if tail == "" {
		return false
	}
	for _, c := range tail {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// SweepTemp removes temporary files older than maxAge. A write in progress
// always has a fresh modification time, so it is never touched. It returns
// the names removed.
func (s *Store) SweepTemp(maxAge time.Duration, now time.Time) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &ReadError{Name: s.dir, Err: err}
	}

	var removed []string
	var firstErr error
	for _, e := range entries {
		if e.IsDir() || !IsTempName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		removed = append(removed, e.Name())
	}

	if len(removed) > 0 {
		s.log.Info("removed abandoned temp files", "count", len(removed))
	}
	return removed, firstErr
}
