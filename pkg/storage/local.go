package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
)

// LocalDisk stores files under a root directory.
type LocalDisk struct {
	root    string // absolute root directory
	baseURL string // public URL prefix for URL()
}

// NewLocalDisk returns a disk rooted at root whose files are served under
// baseURL. A relative root is resolved against the working directory.
func NewLocalDisk(root, baseURL string) (*LocalDisk, error) {
	if !filepath.IsAbs(root) {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("storage/local: resolve %s: %w", root, err)
		}
		root = abs
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage/local: mkdir %s: %w", root, err)
	}
	return &LocalDisk{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root returns the absolute root directory.
func (d *LocalDisk) Root() string { return d.root }

// abs maps a slash path onto the root, refusing anything that escapes it.
func (d *LocalDisk) abs(path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if clean == string(filepath.Separator) {
		return "", fmt.Errorf("storage/local: empty path")
	}
	return filepath.Join(d.root, clean), nil
}

// ── Write ─────────────────────────────────────────────────────────────────────

// Put writes through a temporary file so a half-written upload is never
// visible under its final name.
func (d *LocalDisk) Put(_ context.Context, path string, r io.Reader, _ string) (string, error) {
	full, err := d.abs(path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("storage/local: mkdir: %w", err)
	}

	t, err := renameio.TempFile(filepath.Dir(full), full)
	if err != nil {
		return "", fmt.Errorf("storage/local: create %s: %w", path, err)
	}
	defer t.Cleanup()
	if _, err := io.Copy(t, r); err != nil {
		return "", fmt.Errorf("storage/local: write %s: %w", path, err)
	}
	if err := t.Chmod(0o644); err != nil {
		return "", fmt.Errorf("storage/local: chmod %s: %w", path, err)
	}
	if err := t.CloseAtomicallyReplace(); err != nil {
		return "", fmt.Errorf("storage/local: replace %s: %w", path, err)
	}
	return d.URL(path), nil
}

// ── Read ──────────────────────────────────────────────────────────────────────

func (d *LocalDisk) Open(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := d.abs(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("storage/local: open %s: %w", path, err)
	}
	return f, nil
}

func (d *LocalDisk) Exists(_ context.Context, path string) (bool, error) {
	full, err := d.abs(path)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("storage/local: stat %s: %w", path, err)
	}
	return true, nil
}

func (d *LocalDisk) URL(path string) string {
	return d.baseURL + "/" + strings.TrimLeft(filepath.ToSlash(path), "/")
}

// ── Delete ────────────────────────────────────────────────────────────────────

func (d *LocalDisk) Delete(_ context.Context, path string) error {
	full, err := d.abs(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage/local: delete %s: %w", path, err)
	}
	return nil
}
