package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// Migration outcomes for cart.json.
const (
	CartCreated   = "created"
	CartConverted = "converted"
	CartUnchanged = "unchanged"
)

// Migrate prepares the data directory before serving: it makes sure
// cart.json exists and holds the per-user object layout. A legacy array
// cart is replaced by an empty object; its contents are not carried over
// because array carts had no owner. Any other shape is an error.
func Migrate(ctx context.Context, st *docstore.Store) (string, error) {
	log := logger.WithCtx(ctx)

	shape, err := st.Shape(repositories.CartDocument)
	if err != nil {
		return "", fmt.Errorf("services: migrate: %w", err)
	}

	switch shape {
	case docstore.ShapeObject:
		log.Info("cart document ok", "path", st.Dir())
		return CartUnchanged, nil
	case docstore.ShapeMissing:
		if _, err := st.Write(repositories.CartDocument, models.CartStore{}); err != nil {
			return "", fmt.Errorf("services: migrate: %w", err)
		}
		log.Info("cart document created", "path", st.Dir())
		return CartCreated, nil
	case docstore.ShapeArray:
		log.Warn("converting legacy cart document from array to object", "path", st.Dir())
		if _, err := st.Write(repositories.CartDocument, models.CartStore{}); err != nil {
			return "", fmt.Errorf("services: migrate: %w", err)
		}
		return CartConverted, nil
	}
	return "", fmt.Errorf("services: migrate: %s has unexpected shape %s", repositories.CartDocument, shape)
}
