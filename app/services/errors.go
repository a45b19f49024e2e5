package services

import (
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/apperr"
)

// Sentinels returned (wrapped) by the services. Compare with errors.Is; the
// HTTP layer maps their kind to a status code.
var (
	ErrInvalidItem     = apperr.Validation("invalid_item", "Invalid item ID")
	ErrInvalidQuantity = apperr.Validation("invalid_quantity", "Invalid quantity")
	ErrEmptyCart       = apperr.Validation("empty_cart", "Cart is empty")

	ErrMissingField  = apperr.Validation("missing_field", "Missing required field")
	ErrItemsInvalid  = apperr.Validation("items_invalid", "Some items are invalid or do not match the menu")
	ErrInvalidTotal  = apperr.Validation("invalid_total", "Invalid total format")
	ErrTotalMismatch = apperr.Validation("total_mismatch", "Total mismatch")
	ErrInvalidStatus = apperr.Validation("invalid_status", "Invalid status")

	ErrOrderNotFound = apperr.NotFound("order_not_found", "Order not found")
	ErrItemNotFound  = apperr.NotFound("menu_item_not_found", "Menu item not found")

	// ErrCartNotCleared is returned together with a placed order when the
	// order was written but emptying the cart failed.
	ErrCartNotCleared = apperr.Storage("cart_not_cleared", "Order placed but the cart could not be cleared")

	ErrInvalidCredentials = apperr.Validation("invalid_credentials", "Invalid email or password")
	ErrInvalidMenuItem    = apperr.Validation("invalid_menu_item", "Invalid menu item")
	ErrInvalidProduct     = apperr.Validation("invalid_product", "Invalid product")

	ErrStorage    = repositories.ErrStorage
	ErrLegacyCart = repositories.ErrLegacyCart
)
