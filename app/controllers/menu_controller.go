package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/ctx"
	"github.com/shashiranjanraj/delish/pkg/storage"
)

// MenuController serves the public menu and the vendor menu editor.
type MenuController struct {
	menu *services.MenuService
	disk storage.Disk
}

func NewMenuController(menu *services.MenuService, disk storage.Disk) *MenuController {
	return &MenuController{menu: menu, disk: disk}
}

type menuItemInput struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Price       models.Price `json:"price" validate:"required"`
	Description string       `json:"description" validate:"required"`
}

func (in menuItemInput) item(image string) models.MenuItem {
	return models.MenuItem{
		ID:          in.ID,
		Name:        in.Name,
		Price:       in.Price,
		Image:       image,
		Description: in.Description,
	}
}

// All GET /api/menu
func (h *MenuController) All(c *ctx.Context) {
	menu, err := h.menu.All(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(menu)
}

// Category GET /api/menu/{category} and /vendor/menu/{category}
func (h *MenuController) Category(c *ctx.Context) {
	items, err := h.menu.Category(c.Context(), c.Param("category"))
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(items)
}

// Categories GET /vendor/categories
func (h *MenuController) Categories(c *ctx.Context) {
	names, err := h.menu.ListCategories(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(names)
}

// Create POST /vendor/menu/{category}
func (h *MenuController) Create(c *ctx.Context) {
	var in menuItemInput
	if !c.Bind(&in) {
		return
	}
	stored, ok := upload(c, h.disk, "image", storage.ImagesDir)
	if !ok {
		return
	}
	item, err := h.menu.CreateItem(c.Context(), c.Param("category"), in.item(stored.URL))
	if err != nil {
		discard(c, h.disk, stored)
		c.Fail(err)
		return
	}
	c.Created("Item added to category", item)
}

// Update PUT /vendor/menu/{category}/{index}
func (h *MenuController) Update(c *ctx.Context) {
	index, err := c.ParamInt("index")
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid item index")
		return
	}
	var in menuItemInput
	if !c.Bind(&in) {
		return
	}
	stored, ok := upload(c, h.disk, "image", storage.ImagesDir)
	if !ok {
		return
	}
	item, err := h.menu.UpdateItem(c.Context(), c.Param("category"), index, in.item(stored.URL))
	if err != nil {
		discard(c, h.disk, stored)
		c.Fail(err)
		return
	}
	c.Message("Item updated", item)
}

// Delete DELETE /vendor/menu/{category}/{index}
func (h *MenuController) Delete(c *ctx.Context) {
	index, err := c.ParamInt("index")
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid item index")
		return
	}
	item, err := h.menu.DeleteItem(c.Context(), c.Param("category"), index)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Message("Item deleted", item)
}
