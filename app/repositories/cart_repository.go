package repositories

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// CartRepository reads and writes cart.json.
type CartRepository struct {
	store *docstore.Store
}

func NewCartRepository(st *docstore.Store) *CartRepository {
	return &CartRepository{store: st}
}

// Load returns every user's cart. A missing document is an empty store.
func (r *CartRepository) Load() (models.CartStore, error) {
	carts := models.CartStore{}
	err := r.store.Read(CartDocument, &carts)
	switch {
	case err == nil:
		if carts == nil {
			carts = models.CartStore{}
		}
		return carts, nil
	case errors.Is(err, docstore.ErrMissing):
		return models.CartStore{}, nil
	}

	if sh, _ := r.store.Shape(CartDocument); sh == docstore.ShapeArray {
		return nil, ErrLegacyCart.With("carts.Load", err)
	}
	return nil, ErrStorage.With("carts.Load", fmt.Errorf("repositories: load %s: %w", CartDocument, err))
}

// Save replaces cart.json with carts.
func (r *CartRepository) Save(carts models.CartStore) error {
	return save(r.store, "carts.Save", CartDocument, carts)
}
