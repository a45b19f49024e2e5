package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/delish/app/models"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// ProductService manages products.json.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(products *repositories.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.All()
}

// Add appends p to the catalog.
func (s *ProductService) Add(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "products.Add"
	if strings.TrimSpace(p.Name) == "" {
		return nil, ErrInvalidProduct.With(op, nil).WithField("name")
	}
	if p.Price < 0 {
		return nil, ErrInvalidProduct.With(op, nil).WithMessage("Price must not be negative")
	}
	products, err := s.products.All()
	if err != nil {
		return nil, err
	}
	if p.ID == "" {
		p.ID = strings.ToLower(NewOrderID())
	}
	products = append(products, p)
	if err := s.products.Save(products); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("product added", "product_id", p.ID, "name", p.Name)
	return &p, nil
}

// UserService lists users.json.
type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// List returns every user with the password hash removed.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.All()
	if err != nil {
		return nil, err
	}
	out := make([]models.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	return out, nil
}
