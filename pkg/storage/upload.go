package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Upload folders.
const (
	PaymentsDir = "payments"
	ImagesDir   = "images"
)

// ErrNotImage rejects uploads whose content is not a supported image.
var ErrNotImage = errors.New("storage: upload is not an image")

var imageExt = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Stored locates a saved upload.
type Stored struct {
	Path string // disk path, for Delete
	URL  string // public URL recorded on orders and menu items
}

// SaveImage sniffs fh, rejects non-images and stores it under dir with a
// random name.
func SaveImage(ctx context.Context, d Disk, dir string, fh *multipart.FileHeader) (Stored, error) {
	f, err := fh.Open()
	if err != nil {
		return Stored{}, fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()
	return PutImage(ctx, d, dir, f)
}

// PutImage is SaveImage for an already open reader.
func PutImage(ctx context.Context, d Disk, dir string, r io.Reader) (Stored, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return Stored{}, ErrNotImage
		}
		return Stored{}, fmt.Errorf("storage: read upload: %w", err)
	}
	head = head[:n]

	ct := http.DetectContentType(head)
	ext, ok := imageExt[ct]
	if !ok {
		return Stored{}, fmt.Errorf("%w (detected %s)", ErrNotImage, ct)
	}

	name := path.Join(strings.Trim(dir, "/"), uuid.NewString()+ext)
	body := io.MultiReader(bytes.NewReader(head), r)
	url, err := d.Put(ctx, name, body, ct)
	if err != nil {
		return Stored{}, err
	}
	return Stored{Path: name, URL: url}, nil
}
