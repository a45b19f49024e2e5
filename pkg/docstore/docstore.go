// Package docstore persists named JSON documents as individual files in one
// data directory.
//
// A write serializes the value to a uniquely named temporary file next to the
// target and renames it into place, so a reader sees either the previous
// version or the new one, never a partial file. A failed write removes its
// temporary file and leaves the previous version untouched.
//
// The store does not serialize read-modify-write cycles: two callers that
// read the same document, change it independently and write it back race,
// and the last rename wins. Every call goes to disk; nothing is cached.
//
//	st, _ := docstore.Open("data")
//	var carts map[string][]CartLine
//	if err := st.Read("cart.json", &carts); errors.Is(err, docstore.ErrMissing) {
//	    carts = map[string][]CartLine{}
//	}
//	res, err := st.Write("cart.json", carts)
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/renameio"
	"github.com/tidwall/gjson"

	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/metrics"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	// previewLen caps how much of a document is echoed into debug logs.
	previewLen = 120
)

// ErrMissing is returned by Read, Raw and Stat when the document file does
// not exist. It is not a failure: callers default to an empty value.
var ErrMissing = errors.New("docstore: document does not exist")

// ErrInvalidName is returned for names that are not a plain file name.
var ErrInvalidName = errors.New("docstore: invalid document name")

// ReadError reports an I/O or parse failure other than absence.
type ReadError struct {
	Name string
	Err  error
}

func (e *ReadError) Error() string { return fmt.Sprintf("docstore: read %s: %v", e.Name, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed serialize, temp write or rename.
type WriteError struct {
	Name string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("docstore: write %s: %v", e.Name, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// WriteResult describes a completed write.
type WriteResult struct {
	Seq   uint64 // per-store write sequence number, starting at 1
	Bytes int    // serialized size
}

// Info is file metadata for a stored document.
type Info struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
}

// Store is a handle on one data directory. It is safe for concurrent use.
type Store struct {
	dir string
	seq atomic.Uint64
	log *slog.Logger
}

// Open returns a Store rooted at dir, creating the directory if needed.
func Open(dir string) (*Store, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("docstore: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("docstore: mkdir %s: %w", abs, err)
	}
	return &Store{dir: abs, log: logger.L.With("component", "docstore")}, nil
}

// Dir returns the absolute data directory.
func (s *Store) Dir() string { return s.dir }

// Writes returns the number of writes attempted through this store.
func (s *Store) Writes() uint64 { return s.seq.Load() }

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(s.dir, name), nil
}

// Raw returns the stored bytes of a document.
func (s *Store) Raw(name string) ([]byte, error) {
	p, err := s.path(name)
	if err != nil {
		return nil, &ReadError{Name: name, Err: err}
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMissing
		}
		return nil, &ReadError{Name: name, Err: err}
	}
	return data, nil
}

// Read loads the named document and decodes it into dest.
func (s *Store) Read(name string, dest any) error {
	data, err := s.Raw(name)
	switch {
	case errors.Is(err, ErrMissing):
		s.log.Debug("document not found", "document", name)
		metrics.ObserveRead(name, "missing")
		return ErrMissing
	case err != nil:
		s.log.Error("document read failed", "document", name, "error", err)
		metrics.ObserveRead(name, "error")
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.log.Error("document parse failed", "document", name, "error", err)
		metrics.ObserveRead(name, "error")
		return &ReadError{Name: name, Err: err}
	}

	s.log.Debug("document read", "document", name, "bytes", len(data))
	metrics.ObserveRead(name, "ok")
	return nil
}

// Write serializes v and atomically replaces the named document.
func (s *Store) Write(name string, v any) (WriteResult, error) {
	start := time.Now()
	res := WriteResult{Seq: s.seq.Add(1)}

	p, err := s.path(name)
	if err != nil {
		return res, &WriteError{Name: name, Err: err}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.ObserveWrite(name, start, 0, err)
		s.log.Error("document encode failed", "document", name, "seq", res.Seq, "error", err)
		return res, &WriteError{Name: name, Err: err}
	}
	res.Bytes = len(data)

	s.log.Debug("document write", "document", name, "seq", res.Seq, "preview", preview(data))

	err = s.replace(p, data)
	metrics.ObserveWrite(name, start, res.Bytes, err)
	if err != nil {
		s.log.Error("document write failed", "document", name, "seq", res.Seq, "error", err)
		return res, &WriteError{Name: name, Err: err}
	}

	s.log.Debug("document written", "document", name, "seq", res.Seq, "bytes", res.Bytes)
	return res, nil
}

// replace writes data to a temporary file in the data directory and renames
// it onto target. Cleanup is a no-op once the rename succeeded and removes the
// temporary file on every other path.
func (s *Store) replace(target string, data []byte) error {
	t, err := renameio.TempFile(s.dir, target)
	if err != nil {
		return err
	}
	defer t.Cleanup() //nolint:errcheck

	if err := t.Chmod(filePerm); err != nil {
		return err
	}
	if _, err := t.Write(data); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}

// List returns the documents whose file name ends in suffix, minus the names
// in exclude (compared with the suffix attached), with the suffix stripped and
// sorted. A missing data directory yields an empty list.
func (s *Store) List(suffix string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, &ReadError{Name: s.dir, Err: err}
	}

	skip := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		skip[name] = struct{}{}
	}

	out := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, suffix) {
			continue
		}
		if _, ok := skip[name]; ok {
			continue
		}
		out = append(out, strings.TrimSuffix(name, suffix))
	}
	sort.Strings(out)
	return out, nil
}

// Stat returns file metadata for the named document.
func (s *Store) Stat(name string) (Info, error) {
	p, err := s.path(name)
	if err != nil {
		return Info{}, &ReadError{Name: name, Err: err}
	}
	fi, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, ErrMissing
		}
		return Info{}, &ReadError{Name: name, Err: err}
	}
	return Info{Name: name, Path: p, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Shape is the top-level JSON type of a stored document.
type Shape int

const (
	ShapeMissing Shape = iota
	ShapeObject
	ShapeArray
	ShapeScalar
	ShapeInvalid
)

func (sh Shape) String() string {
	switch sh {
	case ShapeMissing:
		return "missing"
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	case ShapeScalar:
		return "scalar"
	}
	return "invalid"
}

// Shape reports the top-level JSON type of a document without decoding it.
func (s *Store) Shape(name string) (Shape, error) {
	data, err := s.Raw(name)
	if errors.Is(err, ErrMissing) {
		return ShapeMissing, nil
	}
	if err != nil {
		return ShapeInvalid, err
	}
	return ShapeOf(data), nil
}

// ShapeOf classifies raw JSON bytes.
func ShapeOf(data []byte) Shape {
	if !gjson.ValidBytes(data) {
		return ShapeInvalid
	}
	res := gjson.ParseBytes(data)
	switch {
	case res.IsObject():
		return ShapeObject
	case res.IsArray():
		return ShapeArray
	default:
		return ShapeScalar
	}
}

func preview(data []byte) string {
	if len(data) <= previewLen {
		return string(data)
	}
	return string(data[:previewLen]) + "..."
}
