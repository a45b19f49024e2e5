package controllers

import (
	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

type productInput struct {
	ID          string       `json:"id"`
	Name        string       `json:"name" validate:"required"`
	Description string       `json:"description"`
	Price       models.Price `json:"price" validate:"gte=0"`
	Image       string       `json:"image"`
}

// Index GET /api/products
func (h *ProductController) Index(c *ctx.Context) {
	products, err := h.products.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// Store POST /api/products
func (h *ProductController) Store(c *ctx.Context) {
	var in productInput
	if !c.Bind(&in) {
		return
	}
	p, err := h.products.Add(c.Context(), models.Product{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
	})
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created("Product added", p)
}
