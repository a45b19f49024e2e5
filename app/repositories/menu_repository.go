package repositories

import (
	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/docstore"
)

// MenuRepository reads category documents (<category>.json). The lookup
// order used by FindItem is fixed at construction.
type MenuRepository struct {
	store      *docstore.Store
	categories []string
}

// NewMenuRepository returns a repository that searches categories, in
// order, when resolving an item id.
func NewMenuRepository(st *docstore.Store, categories []string) *MenuRepository {
	return &MenuRepository{store: st, categories: append([]string(nil), categories...)}
}

// Categories returns the fixed lookup order.
func (r *MenuRepository) Categories() []string {
	return append([]string(nil), r.categories...)
}

// ListCategories returns every category document present in the data
// directory, reserved documents excluded.
func (r *MenuRepository) ListCategories() ([]string, error) {
	names, err := r.store.List(".json", ReservedDocuments)
	if err != nil {
		return nil, ErrStorage.With("menu.ListCategories", err)
	}
	return names, nil
}

// Category returns the items of one category, empty when the document does
// not exist.
func (r *MenuRepository) Category(name string) ([]models.MenuItem, error) {
	if err := ValidCategory(name); err != nil {
		return nil, err
	}
	items := []models.MenuItem{}
	if err := load(r.store, "menu.Category", name+".json", &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return items, nil
}

// SaveCategory replaces a category document.
func (r *MenuRepository) SaveCategory(name string, items []models.MenuItem) error {
	if err := ValidCategory(name); err != nil {
		return err
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	return save(r.store, "menu.SaveCategory", name+".json", items)
}

// FindItem scans the lookup categories in order and returns the first item
// whose id matches. Missing categories are skipped; unreadable ones fail.
func (r *MenuRepository) FindItem(id string) (models.MenuItem, bool, error) {
	for _, cat := range r.categories {
		items, err := r.Category(cat)
		if err != nil {
			return models.MenuItem{}, false, err
		}
		for _, it := range items {
			if it.ID == id {
				return it, true, nil
			}
		}
	}
	return models.MenuItem{}, false, nil
}

// All returns the lookup categories keyed by name.
func (r *MenuRepository) All() (models.Menu, error) {
	menu := make(models.Menu, len(r.categories))
	for _, cat := range r.categories {
		items, err := r.Category(cat)
		if err != nil {
			return nil, err
		}
		menu[cat] = items
	}
	return menu, nil
}
