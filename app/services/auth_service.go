package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/pkg/auth"
	"github.com/shashiranjanraj/delish/pkg/logger"
)

// LoginResult is returned on a successful login.
type LoginResult struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
}

// AuthService checks credentials against users.json.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies email/password and issues a token. Unknown emails and wrong
// passwords fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	const op = "auth.Login"
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials.With(op, nil)
	}

	user, ok, err := s.users.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if !ok || user.Password == "" || !auth.CheckPassword(user.Password, password) {
		logger.WithCtx(ctx).Warn("login failed", "email", email)
		return nil, ErrInvalidCredentials.With(op, nil)
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("login succeeded", "user_id", user.ID, "role", user.Role)
	return &LoginResult{Token: token, Role: user.Role, Name: user.Name}, nil
}
