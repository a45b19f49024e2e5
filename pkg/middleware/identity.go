package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// UserCookieName is the cookie carrying the anonymous customer identity.
const UserCookieName = "userId"

// UserCookieTTL is how long an assigned identity lives in the browser.
const UserCookieTTL = 30 * 24 * time.Hour

type userIDKey struct{}

// WithUserID stores the cookie identity in ctx.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

// UserIDFromCtx returns the identity stored by UserCookie, or "".
func UserIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// UserCookie gives every browser a stable identity: an existing userId
// cookie is reused, otherwise a random UUID is issued as an HttpOnly cookie.
func UserCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(UserCookieName); err == nil {
			id = c.Value
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     UserCookieName,
				Value:    id,
				Path:     "/",
				MaxAge:   int(UserCookieTTL / time.Second),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}
