package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/auth"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/response"
)

type claimsKey struct{}

// ClaimsFromCtx returns the token claims stored by RequireRole.
func ClaimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RoleFromCtx returns the authenticated role, if any.
func RoleFromCtx(ctx context.Context) (string, bool) {
	c, ok := ClaimsFromCtx(ctx)
	if !ok {
		return "", false
	}
	return c.Role, true
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// Browsers cannot set headers on a websocket handshake.
	return r.URL.Query().Get("token")
}

// RequireRole admits requests carrying a valid bearer token whose role is one
// of roles. With AUTH_ENABLED=false every request is admitted unchanged.
//
//	admin := r.Group("/admin", middleware.RequireRole(models.RoleAdmin, models.RoleVendor))
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !config.AuthEnabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := bearer(r)
			if token == "" {
				response.Unauthorized(w)
				return
			}
			claims, err := auth.ValidateToken(token)
			if err != nil {
				logger.WithCtx(r.Context()).Warn("rejected token", "path", r.URL.Path, "error", err)
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			if len(allowed) > 0 && !allowed[claims.Role] {
				response.Forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
