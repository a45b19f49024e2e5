package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// MenuService serves the customer menu and the vendor's item CRUD. Vendor
// writes replace the whole category document.
type MenuService struct {
	menu  *repositories.MenuRepository
	newID func() string
}

func NewMenuService(menu *repositories.MenuRepository) *MenuService {
	return &MenuService{menu: menu, newID: NewOrderID}
}

// All returns the customer-facing categories.
func (s *MenuService) All(ctx context.Context) (models.Menu, error) {
	return s.menu.All()
}

// ListCategories returns every category document.
func (s *MenuService) ListCategories(ctx context.Context) ([]string, error) {
	return s.menu.ListCategories()
}

// Category returns one category's items.
func (s *MenuService) Category(ctx context.Context, name string) ([]models.MenuItem, error) {
	return s.menu.Category(name)
}

// FindItem resolves an id across the customer-facing categories.
func (s *MenuService) FindItem(ctx context.Context, id string) (*models.MenuItem, error) {
	item, ok, err := s.menu.FindItem(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrItemNotFound.With("menu.FindItem", nil).WithMessage("Menu item %s not found", id)
	}
	return &item, nil
}

func validMenuItem(op string, item models.MenuItem) error {
	switch {
	case strings.TrimSpace(item.Name) == "":
		return ErrInvalidMenuItem.With(op, nil).WithField("name")
	case item.Price <= 0:
		return ErrInvalidMenuItem.With(op, nil).WithMessage("Price must be a positive number")
	case strings.TrimSpace(item.Description) == "":
		return ErrInvalidMenuItem.With(op, nil).WithField("description")
	}
	return nil
}

// CreateItem appends item to category, creating the document if needed. An
// empty id is generated.
func (s *MenuService) CreateItem(ctx context.Context, category string, item models.MenuItem) (*models.MenuItem, error) {
	const op = "menu.CreateItem"
	if err := validMenuItem(op, item); err != nil {
		return nil, err
	}
	items, err := s.menu.Category(category)
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		item.ID = strings.ToLower(s.newID())
	}
	items = append(items, item)
	if err := s.menu.SaveCategory(category, items); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("menu item created", "category", category, "item_id", item.ID)
	return &item, nil
}

// UpdateItem replaces the item at index. An empty image keeps the current one.
func (s *MenuService) UpdateItem(ctx context.Context, category string, index int, item models.MenuItem) (*models.MenuItem, error) {
	const op = "menu.UpdateItem"
	if err := validMenuItem(op, item); err != nil {
		return nil, err
	}
	items, err := s.menu.Category(category)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, ErrItemNotFound.With(op, nil).WithMessage("Item %d not found in category %s", index, category)
	}
	if item.ID == "" {
		item.ID = items[index].ID
	}
	if item.Image == "" {
		item.Image = items[index].Image
	}
	items[index] = item
	if err := s.menu.SaveCategory(category, items); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("menu item updated", "category", category, "index", index)
	return &item, nil
}

// DeleteItem removes and returns the item at index.
func (s *MenuService) DeleteItem(ctx context.Context, category string, index int) (*models.MenuItem, error) {
	const op = "menu.DeleteItem"
	items, err := s.menu.Category(category)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(items) {
		return nil, ErrItemNotFound.With(op, nil).WithMessage("Item %d not found in category %s", index, category)
	}
	removed := items[index]
	items = append(items[:index], items[index+1:]...)
	if err := s.menu.SaveCategory(category, items); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("menu item deleted", "category", category, "index", index, "item_id", removed.ID)
	return &removed, nil
}
