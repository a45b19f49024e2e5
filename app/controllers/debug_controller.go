package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/middleware"
)

// DebugController exposes the raw state of the cart document.
type DebugController struct {
	store *docstore.Store
}

func NewDebugController(store *docstore.Store) *DebugController {
	return &DebugController{store: store}
}

type cartState struct {
	Exists       bool            `json:"exists"`
	Path         string          `json:"path,omitempty"`
	Size         int64           `json:"size,omitempty"`
	LastModified *time.Time      `json:"lastModified,omitempty"`
	Shape        string          `json:"shape,omitempty"`
	Content      string          `json:"content,omitempty"`
	Parsed       json.RawMessage `json:"parsed"`
	Error        string          `json:"error,omitempty"`
	CurrentUser  *string         `json:"currentUser"`
}

// CartState GET /debug/cart-state
func (h *DebugController) CartState(c *ctx.Context) {
	st := cartState{Parsed: json.RawMessage("null")}
	if id := middleware.UserIDFromCtx(c.Context()); id != "" {
		st.CurrentUser = &id
	}

	info, err := h.store.Stat(repositories.CartDocument)
	if err == nil {
		var raw []byte
		raw, err = h.store.Raw(repositories.CartDocument)
		if err == nil {
			mod := info.ModTime.UTC()
			st.Exists = true
			st.Path = info.Path
			st.Size = info.Size
			st.LastModified = &mod
			st.Content = string(raw)
			st.Shape = docstore.ShapeOf(raw).String()
			if json.Valid(raw) {
				st.Parsed = raw
			}
		}
	}
	if err != nil {
		if errors.Is(err, docstore.ErrMissing) {
			st.Error = "cart.json does not exist"
		} else {
			st.Error = err.Error()
		}
	}
	c.Success(st)
}
