package controllers_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/shashiranjanraj/delish/app/controllers"
	"github.com/shashiranjanraj/delish/app/repositories"
	"github.com/shashiranjanraj/delish/app/routes"
	"github.com/shashiranjanraj/delish/app/services"
	"github.com/shashiranjanraj/delish/pkg/auth"
	"github.com/shashiranjanraj/delish/pkg/docstore"
	"github.com/shashiranjanraj/delish/pkg/event"
	"github.com/shashiranjanraj/delish/pkg/router"
	"github.com/shashiranjanraj/delish/pkg/storage"
	"github.com/shashiranjanraj/delish/pkg/ws"
)

const homeMenu = `[
  {"id":"h1","name":"Burger","price":10000,"description":"Beef"},
  {"id":"h2","name":"Fries","price":"4500","description":"Salted"}
]`

// pngBytes starts with the PNG signature, which is all content sniffing needs.
var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)

type harness struct {
	t       *testing.T
	store   *docstore.Store
	uploads string
	bus     *event.Bus
	handler http.Handler
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := docstore.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(st.Dir(), "home.json"), []byte(homeMenu), 0o644))

	uploads := t.TempDir()
	disk, err := storage.NewLocalDisk(uploads, "/uploads")
	require.NoError(t, err)

	carts := repositories.NewCartRepository(st)
	menu := repositories.NewMenuRepository(st, []string{"home", "value-pack", "yummy", "special", "promo"})
	users := repositories.NewUserRepository(st)
	bus := event.NewBus()

	orders := services.NewOrderService(repositories.NewOrderRepository(st), carts, menu, bus)
	r := router.New()
	routes.Register(r, routes.Controllers{
		Cart:    controllers.NewCartController(services.NewCartService(carts, menu)),
		Order:   controllers.NewOrderController(orders, disk),
		Menu:    controllers.NewMenuController(services.NewMenuService(menu), disk),
		Admin:   controllers.NewAdminController(orders, services.NewUserService(users), ws.NewHub(), bus),
		Auth:    controllers.NewAuthController(services.NewAuthService(users)),
		Product: controllers.NewProductController(services.NewProductService(repositories.NewProductRepository(st))),
		Debug:   controllers.NewDebugController(st),
	})
	return &harness{t: t, store: st, uploads: uploads, bus: bus, handler: r.Handler()}
}

// json sends a JSON body and returns the status and the response body.
func (h *harness) json(method, path, body string) (int, string) {
	h.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

type upload struct {
	field, name string
	data        []byte
}

func (h *harness) multipart(method, path string, fields map[string]string, files ...upload) (int, string) {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.field, f.name)
		require.NoError(h.t, err)
		_, err = fw.Write(f.data)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	h.handler.ServeHTTP(w, req)
	return w.Code, w.Body.String()
}

func (h *harness) uploadedFiles(dir string) []string {
	h.t.Helper()
	entries, err := os.ReadDir(filepath.Join(h.uploads, dir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(h.t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func deliveryFields() map[string]string {
	return map[string]string{
		"clientName":     "Ana",
		"clientContact":  "0800",
		"clientEmail":    "ana@example.com",
		"clientAddress":  "1 Main St",
		"clientBuilding": "B",
		"clientFloor":    "2",
	}
}

// ── Cart ─────────────────────────────────────────────────────────────────────

func TestCartFlow(t *testing.T) {
	h := newHarness(t)

	code, body := h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":2}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Burger", gjson.Get(body, "data.0.name").String())
	assert.Equal(t, int64(2), gjson.Get(body, "data.0.quantity").Int())

	code, body = h.json(http.MethodGet, "/api/cart?userId=u1", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), gjson.Get(body, "data.#").Int())

	code, body = h.json(http.MethodPut, "/api/cart/h1", `{"userId":"u1","quantity":5}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, int64(5), gjson.Get(body, "data.0.quantity").Int())

	code, body = h.json(http.MethodDelete, "/api/cart/h1", `{"userId":"u1"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, int64(0), gjson.Get(body, "data.#").Int())

	code, body = h.json(http.MethodPost, "/api/cart/clear", `{"userId":"u1"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Cart cleared", gjson.Get(body, "message").String())
}

func TestCartAddRejectsBadInput(t *testing.T) {
	h := newHarness(t)

	code, body := h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"nope","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid item ID", gjson.Get(body, "message").String())

	code, body = h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.True(t, gjson.Get(body, "errors.quantity").Exists())

	code, _ = h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.json(http.MethodPost, "/api/cart", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestCartGuestFallback(t *testing.T) {
	h := newHarness(t)

	code, _ := h.json(http.MethodPost, "/api/cart", `{"itemId":"h2","quantity":1}`)
	require.Equal(t, http.StatusOK, code)

	raw, err := h.store.Raw(repositories.CartDocument)
	require.NoError(t, err)
	assert.Equal(t, "Fries", gjson.GetBytes(raw, "guest.0.name").String())
}

// ── Orders ───────────────────────────────────────────────────────────────────

func TestSubmitOrderStoresPaymentProof(t *testing.T) {
	h := newHarness(t)
	placed, cancel := h.bus.Subscribe(1)
	defer cancel()

	fields := deliveryFields()
	fields["userId"] = "u1"
	fields["items"] = `[{"itemId":"h1","name":"Burger","price":10000,"quantity":2}]`
	fields["total"] = "20000"

	code, body := h.multipart(http.MethodPost, "/orders/submit", fields,
		upload{field: "paymentImage", name: "proof.png", data: pngBytes})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Order placed successfully", gjson.Get(body, "message").String())
	assert.Equal(t, 20000.0, gjson.Get(body, "data.total").Float())

	orderID := gjson.Get(body, "data.orderId").String()
	require.Len(t, orderID, 8)
	assert.Len(t, h.uploadedFiles(storage.PaymentsDir), 1)

	e := <-placed
	assert.Equal(t, services.EventOrderPlaced, e.Name)

	code, body = h.json(http.MethodGet, "/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pending", gjson.Get(body, "data.status").String())
	assert.True(t, strings.HasPrefix(gjson.Get(body, "data.paymentImage").String(), "/uploads/payments/"))
}

func TestSubmitOrderRejectionDiscardsUpload(t *testing.T) {
	h := newHarness(t)

	fields := deliveryFields()
	fields["userId"] = "u1"
	fields["items"] = `[{"itemId":"h1","name":"Burger","price":10000,"quantity":2}]`
	fields["total"] = "1"

	code, body := h.multipart(http.MethodPost, "/orders/submit", fields,
		upload{field: "paymentImage", name: "proof.png", data: pngBytes})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, gjson.Get(body, "message").String(), "Total mismatch")
	assert.Empty(t, h.uploadedFiles(storage.PaymentsDir))
}

func TestSubmitOrderRejectsNonImage(t *testing.T) {
	h := newHarness(t)

	fields := deliveryFields()
	fields["userId"] = "u1"
	fields["items"] = `[{"itemId":"h1","name":"Burger","price":10000,"quantity":1}]`
	fields["total"] = "10000"

	code, body := h.multipart(http.MethodPost, "/orders/submit", fields,
		upload{field: "paymentImage", name: "proof.png", data: []byte("#!/bin/sh\necho hi\n")})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.True(t, gjson.Get(body, "errors.paymentImage").Exists())
}

func TestSubmitOrderMissingField(t *testing.T) {
	h := newHarness(t)

	fields := deliveryFields()
	delete(fields, "clientFloor")
	fields["userId"] = "u1"
	fields["items"] = `[{"itemId":"h1","name":"Burger","price":10000,"quantity":1}]`
	fields["total"] = "10000"

	code, body := h.multipart(http.MethodPost, "/orders/submit", fields)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.True(t, gjson.Get(body, "errors.clientFloor").Exists())
}

func TestOrderFromCartThenStatus(t *testing.T) {
	h := newHarness(t)

	code, _ := h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":1}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h2","quantity":2}`)
	require.Equal(t, http.StatusOK, code)

	code, body := h.json(http.MethodPost, "/orders/from-cart", `{"userId":"u1"}`)
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, 19000.0, gjson.Get(body, "data.total").Float())
	assert.False(t, gjson.Get(body, "data.warning").Exists())
	orderID := gjson.Get(body, "data.orderId").String()

	_, body = h.json(http.MethodGet, "/api/cart?userId=u1", "")
	assert.Equal(t, int64(0), gjson.Get(body, "data.#").Int())

	code, body = h.json(http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"confirmed"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "confirmed", gjson.Get(body, "data.status").String())
	assert.True(t, gjson.Get(body, "data.updatedAt").Exists())

	code, _ = h.json(http.MethodPatch, "/orders/"+orderID+"/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.json(http.MethodPatch, "/orders/NOPE1234/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestOrderFromEmptyCart(t *testing.T) {
	h := newHarness(t)

	code, body := h.json(http.MethodPost, "/orders/from-cart", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Cart is empty", gjson.Get(body, "message").String())
}

func TestAttachDetails(t *testing.T) {
	h := newHarness(t)
	h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":1}`)
	_, body := h.json(http.MethodPost, "/orders/from-cart", `{"userId":"u1"}`)
	orderID := gjson.Get(body, "data.orderId").String()
	require.NotEmpty(t, orderID)

	fields := deliveryFields()
	fields["userId"] = "u1"
	code, body := h.multipart(http.MethodPost, "/orders/"+orderID+"/details", fields,
		upload{field: "paymentImage", name: "proof.png", data: pngBytes})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Ana", gjson.Get(body, "data.clientName").String())
	assert.Len(t, h.uploadedFiles(storage.PaymentsDir), 1)
}

// ── Menu ─────────────────────────────────────────────────────────────────────

func TestMenuRead(t *testing.T) {
	h := newHarness(t)

	code, body := h.json(http.MethodGet, "/api/menu", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(2), gjson.Get(body, "data.home.#").Int())
	assert.Equal(t, 4500.0, gjson.Get(body, "data.home.1.price").Float())

	code, body = h.json(http.MethodGet, "/api/menu/promo", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(0), gjson.Get(body, "data.#").Int())

	code, _ = h.json(http.MethodGet, "/api/menu/users", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.json(http.MethodGet, "/api/menu/Home_Page", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestVendorMenuEditor(t *testing.T) {
	h := newHarness(t)

	code, body := h.multipart(http.MethodPost, "/vendor/menu/promo",
		map[string]string{"name": "Combo", "price": "12500", "description": "Deal"},
		upload{field: "image", name: "combo.png", data: pngBytes})
	require.Equal(t, http.StatusCreated, code, body)
	assert.Equal(t, "Item added to category", gjson.Get(body, "message").String())
	assert.True(t, strings.HasPrefix(gjson.Get(body, "data.image").String(), "/uploads/images/"))
	assert.NotEmpty(t, gjson.Get(body, "data.id").String())

	code, body = h.json(http.MethodPut, "/vendor/menu/promo/0", `{"name":"Combo XL","price":"15000","description":"Bigger"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Combo XL", gjson.Get(body, "data.name").String())

	code, _ = h.json(http.MethodPut, "/vendor/menu/promo/x", `{"name":"A","price":1,"description":"B"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = h.json(http.MethodDelete, "/vendor/menu/promo/5", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = h.json(http.MethodDelete, "/vendor/menu/promo/0", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "Item deleted", gjson.Get(body, "message").String())

	code, body = h.json(http.MethodGet, "/vendor/categories", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "home")
}

// ── Admin ────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	h := newHarness(t)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	users := `[{"id":"a1","name":"Boss","email":"boss@example.com","role":"admin","password":"` + hash + `"}]`
	require.NoError(t, os.WriteFile(filepath.Join(h.store.Dir(), "users.json"), []byte(users), 0o644))

	code, body := h.json(http.MethodPost, "/admin/login", `{"email":"BOSS@example.com","password":"s3cret"}`)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, "admin", gjson.Get(body, "data.role").String())

	claims, err := auth.ValidateToken(gjson.Get(body, "data.token").String())
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.UserID)

	code, _ = h.json(http.MethodPost, "/admin/login", `{"email":"boss@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = h.json(http.MethodGet, "/admin/users", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, gjson.Get(body, "data.0.password").Exists())
}

func TestDashboard(t *testing.T) {
	h := newHarness(t)
	h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":1}`)
	h.json(http.MethodPost, "/orders/from-cart", `{"userId":"u1"}`)

	code, body := h.json(http.MethodGet, "/admin/dashboard", "")
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, int64(1), gjson.Get(body, "data.stats.totalOrders").Int())

	code, body = h.json(http.MethodGet, "/admin/orders", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(1), gjson.Get(body, "data.#").Int())
}

// ── Debug ────────────────────────────────────────────────────────────────────

func TestDebugCartState(t *testing.T) {
	h := newHarness(t)

	code, body := h.json(http.MethodGet, "/debug/cart-state", "")
	require.Equal(t, http.StatusOK, code)
	assert.False(t, gjson.Get(body, "data.exists").Bool())
	assert.Equal(t, "cart.json does not exist", gjson.Get(body, "data.error").String())

	h.json(http.MethodPost, "/api/cart", `{"userId":"u1","itemId":"h1","quantity":1}`)

	code, body = h.json(http.MethodGet, "/debug/cart-state", "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, gjson.Get(body, "data.exists").Bool())
	assert.Equal(t, "object", gjson.Get(body, "data.shape").String())
	assert.Equal(t, "h1", gjson.Get(body, "data.parsed.u1.0.itemId").String())
}
