package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/config"
	"github.com/shashiranjanraj/delish/pkg/app"
	"github.com/shashiranjanraj/delish/pkg/middleware"
)

// configure points the application at fresh temp directories.
func configure(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()
	config.Set("DATA_DIR", filepath.Join(dir, "data"))
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", filepath.Join(dir, "uploads"))
	config.Set("STORAGE_URL", "/uploads")
	config.Set("S3_BUCKET", "")
	config.Set("EVENTS_DRIVER", driver)
	config.Set("RATE_LIMIT_RPS", "1000")
	config.Set("RATE_LIMIT_BURST", "1000")
	config.Set("AUTH_ENABLED", "false")
	return dir
}

func newApp(t *testing.T, opts ...app.Option) *app.Application {
	t.Helper()
	a, err := app.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMigrateCreatesCart(t *testing.T) {
	configure(t, "memory")
	a := newApp(t)

	outcome, err := a.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.CartCreated, outcome)

	outcome, err = a.Migrate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, services.CartUnchanged, outcome)
}

func TestHandlerStack(t *testing.T) {
	configure(t, "memory")
	h := newApp(t).Handler()

	w := serve(h, http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var assigned string
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.UserCookieName {
			assigned = c.Value
		}
	}
	assert.NotEmpty(t, assigned)

	w = serve(h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", gjson.Get(w.Body.String(), "message").String())

	w = serve(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "delish_")
}

func TestCookieIdentityOwnsCart(t *testing.T) {
	configure(t, "memory")
	a := newApp(t)
	require.NoError(t, os.WriteFile(filepath.Join(a.Store.Dir(), "home.json"),
		[]byte(`[{"id":"h1","name":"Burger","price":10000,"description":"Beef"}]`), 0o644))
	h := a.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/cart", strings.NewReader(`{"itemId":"h1","quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.UserCookieName, Value: "cookie-user"})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	lines, err := a.Carts.Get(context.Background(), "cookie-user")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestUploadsAreServed(t *testing.T) {
	dir := configure(t, "memory")
	h := newApp(t).Handler()

	images := filepath.Join(dir, "uploads", "images")
	require.NoError(t, os.MkdirAll(images, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(images, "x.txt"), []byte("hello"), 0o644))

	w := serve(h, http.MethodGet, "/uploads/images/x.txt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestRedisEventsDriver(t *testing.T) {
	configure(t, "redis")
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	a := newApp(t, app.WithRedis(rdb))
	require.NoError(t, os.WriteFile(filepath.Join(a.Store.Dir(), "home.json"),
		[]byte(`[{"id":"h1","name":"Burger","price":10000,"description":"Beef"}]`), 0o644))
	h := a.Handler()

	require.Equal(t, http.StatusOK, serve(h, http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":1}`).Code)
	w := serve(h, http.MethodPost, "/orders/from-cart", `{"userId":"u1"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list, err := mr.List(config.EventsRedisKey())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, services.EventOrderPlaced, gjson.Get(list[0], "event").String())
}

func TestStartRegistersJanitor(t *testing.T) {
	configure(t, "memory")
	a := newApp(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	a.Start(ctx)

	jobs := a.Schedule.List()
	require.Len(t, jobs, 1)
	assert.Contains(t, jobs[0], "janitor")
}

func TestRouteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, app.PrintRoutes(&buf, app.RouteTable()))

	out := buf.String()
	assert.Contains(t, out, "orders.submit")
	assert.Contains(t, out, "/admin/orders/stream")
	assert.Contains(t, out, "/vendor/menu/{category}/{index}")
}
