package repositories

import (
	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// ProductRepository reads and writes products.json.
type ProductRepository struct {
	store *docstore.Store
}

func NewProductRepository(st *docstore.Store) *ProductRepository {
	return &ProductRepository{store: st}
}

func (r *ProductRepository) All() ([]models.Product, error) {
	products := []models.Product{}
	if err := load(r.store, "products.All", ProductsDocument, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

func (r *ProductRepository) Save(products []models.Product) error {
	return save(r.store, "products.Save", ProductsDocument, products)
}
