// Package routes is the HTTP route table.
package routes

import (
	"github.com/shashiranjanraj/delish/app/controllers"
	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/middleware"
	"github.com/shashiranjanraj/delish/pkg/router"
)

// Controllers groups every handler the routes refer to.
type Controllers struct {
	Cart    *controllers.CartController
	Order   *controllers.OrderController
	Menu    *controllers.MenuController
	Admin   *controllers.AdminController
	Auth    *controllers.AuthController
	Product *controllers.ProductController
	Debug   *controllers.DebugController
}

// Register mounts the application routes on r. Handlers are only invoked
// per request, so a zero Controllers is enough to list the routes.
func Register(r *router.Router, h Controllers) {
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleVendor)
	admin := middleware.RequireRole(models.RoleAdmin)

	// ── Customer API ─────────────────────────────────────────────────────────
	api := r.Group("/api")
	api.Get("/menu", "menu.index", ctx.Wrap(h.Menu.All))
	api.Get("/menu/{category}", "menu.category", ctx.Wrap(h.Menu.Category))

	api.Get("/cart", "cart.show", ctx.Wrap(h.Cart.Show))
	api.Post("/cart", "cart.add", ctx.Wrap(h.Cart.Add))
	api.Post("/cart/clear", "cart.clear", ctx.Wrap(h.Cart.Clear))
	api.Put("/cart/{itemId}", "cart.update", ctx.Wrap(h.Cart.Update))
	api.Delete("/cart/{itemId}", "cart.remove", ctx.Wrap(h.Cart.Remove))

	api.Get("/products", "products.index", ctx.Wrap(h.Product.Index))
	api.Post("/products", "products.store", ctx.Wrap(h.Product.Store), staff)

	// ── Orders ───────────────────────────────────────────────────────────────
	orders := r.Group("/orders")
	orders.Post("/submit", "orders.submit", ctx.Wrap(h.Order.Submit))
	orders.Post("/from-cart", "orders.from_cart", ctx.Wrap(h.Order.FromCart))
	orders.Get("/{orderId}", "orders.show", ctx.Wrap(h.Order.Show))
	orders.Post("/{orderId}/details", "orders.details", ctx.Wrap(h.Order.AttachDetails))
	orders.Patch("/{orderId}/status", "orders.status", ctx.Wrap(h.Order.UpdateStatus), staff)

	// ── Admin ────────────────────────────────────────────────────────────────
	r.Post("/admin/login", "admin.login", ctx.Wrap(h.Auth.Login))
	dash := r.Group("/admin", staff)
	dash.Get("/orders", "admin.orders", ctx.Wrap(h.Admin.Orders))
	dash.Get("/orders/live", "admin.orders.live", ctx.Wrap(h.Admin.Live))
	dash.Get("/orders/stream", "admin.orders.stream", ctx.Wrap(h.Admin.Stream))
	dash.Get("/dashboard", "admin.dashboard", ctx.Wrap(h.Admin.Dashboard))
	dash.Get("/users", "admin.users", ctx.Wrap(h.Admin.Users), admin)

	// ── Vendor ───────────────────────────────────────────────────────────────
	vendor := r.Group("/vendor", staff)
	vendor.Get("/categories", "vendor.categories", ctx.Wrap(h.Menu.Categories))
	vendor.Get("/menu/{category}", "vendor.menu.show", ctx.Wrap(h.Menu.Category))
	vendor.Post("/menu/{category}", "vendor.menu.store", ctx.Wrap(h.Menu.Create))
	vendor.Put("/menu/{category}/{index}", "vendor.menu.update", ctx.Wrap(h.Menu.Update))
	vendor.Delete("/menu/{category}/{index}", "vendor.menu.destroy", ctx.Wrap(h.Menu.Delete))

	// ── Debug ────────────────────────────────────────────────────────────────
	r.Get("/debug/cart-state", "debug.cart_state", ctx.Wrap(h.Debug.CartState))
}
