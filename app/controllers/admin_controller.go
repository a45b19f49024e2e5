package controllers

import (
	"time"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/sse"
	"github.com/shashiranjanraj/delish/pkg/ws"
)

const streamHeartbeat = 15 * time.Second

// AdminController serves the order dashboard.
type AdminController struct {
	orders *services.OrderService
	users  *services.UserService
	hub    *ws.Hub
	bus    *event.Bus
}

func NewAdminController(orders *services.OrderService, users *services.UserService, hub *ws.Hub, bus *event.Bus) *AdminController {
	return &AdminController{orders: orders, users: users, hub: hub, bus: bus}
}

// Orders GET /admin/orders
func (h *AdminController) Orders(c *ctx.Context) {
	orders, err := h.orders.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Dashboard GET /admin/dashboard
func (h *AdminController) Dashboard(c *ctx.Context) {
	dash, err := h.orders.Dashboard(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(dash)
}

// Users GET /admin/users
func (h *AdminController) Users(c *ctx.Context) {
	users, err := h.users.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(users)
}

// Live GET /admin/orders/live upgrades to the order event feed.
func (h *AdminController) Live(c *ctx.Context) {
	h.hub.Upgrade(c.W, c.R)
}

// Stream GET /admin/orders/stream sends order events as Server-Sent Events.
func (h *AdminController) Stream(c *ctx.Context) {
	stream, ok := sse.New(c.W, c.R)
	if !ok {
		return
	}
	feed, cancel := h.bus.Subscribe(16)
	defer cancel()
	stream.Relay(feed, streamHeartbeat)
}
