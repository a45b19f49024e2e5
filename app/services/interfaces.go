package services

import "github.com/shashiranjanraj/delish/app/models"

// CartRepository loads and replaces the whole cart document.
type CartRepository interface {
	Load() (models.CartStore, error)
	Save(models.CartStore) error
}

// OrderRepository loads and replaces the whole order ledger.
type OrderRepository interface {
	Load() ([]models.Order, error)
	Save([]models.Order) error
}

// MenuLookup resolves an item id against the menu.
type MenuLookup interface {
	FindItem(id string) (models.MenuItem, bool, error)
}
