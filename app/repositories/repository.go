// Package repositories maps the JSON documents in the data directory onto
// typed values. Each Load returns the whole document and each Save replaces
// it; callers own the read-modify-write cycle in between.
package repositories

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/shashiranjanraj/delish/pkg/apperr"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// Document names.
const (
	CartDocument     = "cart.json"
	OrdersDocument   = "orders.json"
	UsersDocument    = "users.json"
	ProductsDocument = "products.json"
)

// ReservedDocuments are never listed or served as menu categories.
var ReservedDocuments = []string{CartDocument, OrdersDocument, UsersDocument, ProductsDocument}

var (
	// ErrStorage wraps any read, parse or write failure of a document.
	ErrStorage = apperr.Storage("storage_failure", "storage failure")

	// ErrLegacyCart means cart.json still holds the old array layout.
	ErrLegacyCart = apperr.Storage("legacy_cart", "cart.json uses the legacy array layout; run `delish migrate`")

	// ErrInvalidCategory rejects category names that cannot map to a menu document.
	ErrInvalidCategory = apperr.Validation("invalid_category", "invalid category name")
)

var categoryRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidCategory checks that name is usable as a menu category.
func ValidCategory(name string) error {
	if !categoryRE.MatchString(name) {
		return ErrInvalidCategory.WithMessage("invalid category name %q", name)
	}
	for _, doc := range ReservedDocuments {
		if doc == name+".json" {
			return ErrInvalidCategory.WithMessage("%q is reserved", name)
		}
	}
	return nil
}

// load reads name into dest. A missing document leaves dest untouched and
// is not an error.
func load(st *docstore.Store, op, name string, dest any) error {
	err := st.Read(name, dest)
	if err == nil || errors.Is(err, docstore.ErrMissing) {
		return nil
	}
	return ErrStorage.With(op, fmt.Errorf("repositories: load %s: %w", name, err))
}

func save(st *docstore.Store, op, name string, v any) error {
	if _, err := st.Write(name, v); err != nil {
		return ErrStorage.With(op, fmt.Errorf("repositories: save %s: %w", name, err))
	}
	return nil
}
