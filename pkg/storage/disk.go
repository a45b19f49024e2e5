// Package storage keeps uploaded files: payment proofs attached to orders and
// menu item images uploaded by vendors.
//
// Two drivers are available:
//   - "local": a directory served by the app under STORAGE_URL (default)
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Quick start:
//
//	disks, err := storage.FromConfig(ctx)
//	url, err := disks.Default().Put(ctx, "payments/ab12.png", file, "image/png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUnknownDisk is returned when a disk name has not been registered.
var ErrUnknownDisk = errors.New("storage: unknown disk")

// Disk is the driver interface.
type Disk interface {
	// Put stores r at path and returns the object's public URL.
	Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error)

	// Open returns the stored object. Caller must close it.
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
