package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// CartService mutates per-user carts. Every mutation reads the whole cart
// document, changes one user's lines and writes the whole document back.
// Concurrent mutations are not serialized: the last write wins.
type CartService struct {
	carts CartRepository
	menu  MenuLookup
}

func NewCartService(carts CartRepository, menu MenuLookup) *CartService {
	return &CartService{carts: carts, menu: menu}
}

// Get returns the user's lines, empty when the user has no cart.
func (s *CartService) Get(ctx context.Context, userID string) ([]models.CartLine, error) {
	carts, err := s.carts.Load()
	if err != nil {
		return nil, err
	}
	return carts.Lines(userID), nil
}

// Add puts quantity more of itemID into the cart. The quantity of a single
// call must be within 1..MaxLineQuantity; the resulting line quantity is not
// re-checked, so repeated adds can exceed the cap.
func (s *CartService) Add(ctx context.Context, userID, itemID string, quantity int) ([]models.CartLine, error) {
	const op = "cart.Add"
	if quantity < 1 || quantity > models.MaxLineQuantity {
		return nil, ErrInvalidQuantity.With(op, nil)
	}
	item, err := s.lookup(op, itemID)
	if err != nil {
		return nil, err
	}

	carts, err := s.carts.Load()
	if err != nil {
		return nil, err
	}
	lines := carts.Lines(userID)

	found := false
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, models.CartLine{
			ItemID:   itemID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: quantity,
		})
	}

	carts[userID] = lines
	if err := s.carts.Save(carts); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("cart item added", "user_id", userID, "item_id", itemID, "quantity", quantity, "lines", len(lines))
	return lines, nil
}

// Update sets the quantity of itemID. A quantity <= 0 removes the line;
// otherwise the item must exist in the menu and the line is created if
// needed.
func (s *CartService) Update(ctx context.Context, userID, itemID string, quantity int) ([]models.CartLine, error) {
	const op = "cart.Update"
	if quantity > models.MaxLineQuantity {
		return nil, ErrInvalidQuantity.With(op, nil).WithMessage("Quantity exceeds limit of %d", models.MaxLineQuantity)
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, itemID)
	}

	item, err := s.lookup(op, itemID)
	if err != nil {
		return nil, err
	}

	carts, err := s.carts.Load()
	if err != nil {
		return nil, err
	}
	lines := carts.Lines(userID)

	found := false
	for i := range lines {
		if lines[i].ItemID == itemID {
			lines[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		lines = append(lines, models.CartLine{ItemID: itemID, Name: item.Name, Price: item.Price, Quantity: quantity})
	}

	carts[userID] = lines
	if err := s.carts.Save(carts); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("cart item updated", "user_id", userID, "item_id", itemID, "quantity", quantity)
	return lines, nil
}

// Remove drops itemID from the cart. Removing an absent line succeeds.
func (s *CartService) Remove(ctx context.Context, userID, itemID string) ([]models.CartLine, error) {
	carts, err := s.carts.Load()
	if err != nil {
		return nil, err
	}

	kept := make([]models.CartLine, 0, len(carts[userID]))
	for _, l := range carts.Lines(userID) {
		if l.ItemID != itemID {
			kept = append(kept, l)
		}
	}

	carts[userID] = kept
	if err := s.carts.Save(carts); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("cart item removed", "user_id", userID, "item_id", itemID, "lines", len(kept))
	return kept, nil
}

// Clear empties the user's cart. The user's key is kept.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	carts, err := s.carts.Load()
	if err != nil {
		return err
	}
	carts[userID] = []models.CartLine{}
	if err := s.carts.Save(carts); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("cart cleared", "user_id", userID)
	return nil
}

func (s *CartService) lookup(op, itemID string) (models.MenuItem, error) {
	if strings.TrimSpace(itemID) == "" {
		return models.MenuItem{}, ErrInvalidItem.With(op, nil)
	}
	item, ok, err := s.menu.FindItem(itemID)
	if err != nil {
		return models.MenuItem{}, err
	}
	if !ok {
		return models.MenuItem{}, ErrInvalidItem.With(op, nil)
	}
	return item, nil
}
