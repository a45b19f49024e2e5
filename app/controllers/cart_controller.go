package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/ctx"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

type addItemInput struct {
	UserID   string `json:"userId"`
	ItemID   string `json:"itemId" validate:"required"`
	Quantity *int   `json:"quantity" validate:"required"`
}

type setQuantityInput struct {
	UserID   string `json:"userId"`
	Quantity *int   `json:"quantity" validate:"required"`
}

type userInput struct {
	UserID string `json:"userId"`
}

// bindUser reads an optional userId from the body.
func bindUser(c *ctx.Context) (string, bool) {
	var in userInput
	if _, err := c.ShouldBind(&in); err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return "", false
	}
	return c.UserID(in.UserID), true
}

// Show GET /api/cart
func (h *CartController) Show(c *ctx.Context) {
	lines, err := h.carts.Get(c.Context(), c.UserID(""))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(lines)
}

// Add POST /api/cart
func (h *CartController) Add(c *ctx.Context) {
	var in addItemInput
	if !c.Bind(&in) {
		return
	}
	lines, err := h.carts.Add(c.Context(), c.UserID(in.UserID), in.ItemID, *in.Quantity)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(lines)
}

// Update PUT /api/cart/{itemId}
func (h *CartController) Update(c *ctx.Context) {
	var in setQuantityInput
	if !c.Bind(&in) {
		return
	}
	lines, err := h.carts.Update(c.Context(), c.UserID(in.UserID), c.Param("itemId"), *in.Quantity)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(lines)
}

// Remove DELETE /api/cart/{itemId}
func (h *CartController) Remove(c *ctx.Context) {
	userID, ok := bindUser(c)
	if !ok {
		return
	}
	lines, err := h.carts.Remove(c.Context(), userID, c.Param("itemId"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(lines)
}

// Clear POST /api/cart/clear
func (h *CartController) Clear(c *ctx.Context) {
	userID, ok := bindUser(c)
	if !ok {
		return
	}
	if err := h.carts.Clear(c.Context(), userID); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Cart cleared", nil)
}
