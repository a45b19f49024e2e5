package controllers

import (
	"errors"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/apperr"
	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/storage"
)

type OrderController struct {
	orders *services.OrderService
	disk   storage.Disk
}

func NewOrderController(orders *services.OrderService, disk storage.Disk) *OrderController {
	return &OrderController{orders: orders, disk: disk}
}

// submitOrderInput accepts items as a JSON array or as text holding one,
// and total as a number or text.
type submitOrderInput struct {
	UserID string      `json:"userId"`
	Items  looseString `json:"items"`
	Total  looseString `json:"total"`
	models.DeliveryDetails
}

type detailsInput struct {
	UserID string `json:"userId"`
	models.DeliveryDetails
}

type statusInput struct {
	Status string `json:"status" validate:"required"`
}

type placedOrder struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
	Warning string  `json:"warning,omitempty"`
}

// Submit POST /orders/submit
//
// The userId is taken from the form only; a submission without one is
// rejected rather than attributed to a cookie or the guest.
func (h *OrderController) Submit(c *ctx.Context) {
	var in submitOrderInput
	if !c.Bind(&in) {
		return
	}
	stored, ok := upload(c, h.disk, "paymentImage", storage.PaymentsDir)
	if !ok {
		return
	}

	order, err := h.orders.SubmitDirect(c.Context(), services.SubmitInput{
		UserID:          in.UserID,
		Items:           string(in.Items),
		Total:           string(in.Total),
		DeliveryDetails: in.DeliveryDetails,
		PaymentImage:    stored.URL,
	})
	if err != nil {
		discard(c, h.disk, stored)
		c.Fail(err)
		return
	}
	c.Created("Order placed successfully", placedOrder{OrderID: order.OrderID, Total: order.Total})
}

// FromCart POST /orders/from-cart
func (h *OrderController) FromCart(c *ctx.Context) {
	userID, ok := bindUser(c)
	if !ok {
		return
	}
	order, err := h.orders.PlaceFromCart(c.Context(), userID)
	if order != nil && errors.Is(err, services.ErrCartNotCleared) {
		c.Created("Order placed from cart", placedOrder{
			OrderID: order.OrderID,
			Total:   order.Total,
			Warning: apperr.MessageOf(err, ""),
		})
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Order placed from cart", placedOrder{OrderID: order.OrderID, Total: order.Total})
}

// Show GET /orders/{orderId}
func (h *OrderController) Show(c *ctx.Context) {
	order, err := h.orders.Find(c.Context(), c.Param("orderId"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

// AttachDetails POST /orders/{orderId}/details
func (h *OrderController) AttachDetails(c *ctx.Context) {
	var in detailsInput
	if !c.Bind(&in) {
		return
	}
	stored, ok := upload(c, h.disk, "paymentImage", storage.PaymentsDir)
	if !ok {
		return
	}

	order, err := h.orders.AttachDetails(c.Context(), c.Param("orderId"), services.AttachInput{
		UserID:          c.UserID(in.UserID),
		DeliveryDetails: in.DeliveryDetails,
		PaymentImage:    stored.URL,
	})
	if err != nil {
		discard(c, h.disk, stored)
		c.Fail(err)
		return
	}
	c.Message("Order details attached", order)
}

// UpdateStatus PATCH /orders/{orderId}/status
func (h *OrderController) UpdateStatus(c *ctx.Context) {
	var in statusInput
	if !c.Bind(&in) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Context(), c.Param("orderId"), models.Status(in.Status))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Order status updated", order)
}
