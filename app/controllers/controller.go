// Package controllers adapts HTTP requests to the services. Handlers take a
// *ctx.Context, bind and validate input, call one service operation and map
// the result onto the JSON envelope.
package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/storage"
)

// looseString binds a JSON string, number or array as text. Form fields can
// only carry text, so the same input struct serves JSON and multipart bodies.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = looseString(b)
	return nil
}

// upload stores the optional image in field under dir. It returns a zero
// Stored when no file was sent and writes the error response itself when
// it returns false.
func upload(c *ctx.Context, disk storage.Disk, field, dir string) (storage.Stored, bool) {
	fh, err := c.FormFile(field)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return storage.Stored{}, false
	}
	if fh == nil {
		return storage.Stored{}, true
	}
	stored, err := storage.SaveImage(c.Context(), disk, dir, fh)
	if errors.Is(err, storage.ErrNotImage) {
		c.ValidationError(map[string]string{field: "The " + field + " must be a PNG, JPEG, GIF or WebP image."})
		return storage.Stored{}, false
	}
	if err != nil {
		c.Fail(err)
		return storage.Stored{}, false
	}
	logger.WithCtx(c.Context()).Info("upload stored", "field", field, "path", stored.Path, "size", fh.Size)
	return stored, true
}

// discard removes an upload whose request failed afterwards.
func discard(c *ctx.Context, disk storage.Disk, stored storage.Stored) {
	if stored.Path == "" {
		return
	}
	if err := disk.Delete(c.Context(), stored.Path); err != nil {
		logger.WithCtx(c.Context()).Warn("orphaned upload not removed", "path", stored.Path, "error", err)
	}
}
