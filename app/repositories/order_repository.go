package repositories

import (
	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// OrderRepository reads and writes the order ledger, orders.json.
type OrderRepository struct {
	store *docstore.Store
}

func NewOrderRepository(st *docstore.Store) *OrderRepository {
	return &OrderRepository{store: st}
}

// Load returns the ledger in append order. A missing document is empty.
func (r *OrderRepository) Load() ([]models.Order, error) {
	orders := []models.Order{}
	if err := load(r.store, "orders.Load", OrdersDocument, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Save replaces the ledger.
func (r *OrderRepository) Save(orders []models.Order) error {
	return save(r.store, "orders.Save", OrdersDocument, orders)
}

// IndexOf returns the position of orderID in orders, or -1.
func IndexOf(orders []models.Order, orderID string) int {
	for i := range orders {
		if orders[i].OrderID == orderID {
			return i
		}
	}
	return -1
}
