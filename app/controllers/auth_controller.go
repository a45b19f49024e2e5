package controllers

import (
	"errors"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/apperr"
	"github.com/shashiranjanraj/delish/pkg/ctx"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login POST /admin/login
func (h *AuthController) Login(c *ctx.Context) {
	var in loginInput
	if !c.BindJSON(&in) {
		return
	}
	res, err := h.service.Login(c.Context(), in.Email, in.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Unauthorized(apperr.MessageOf(err, "Invalid email or password"))
		return
	}
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(res)
}
