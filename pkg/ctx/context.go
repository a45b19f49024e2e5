// Package ctx provides a gin.Context-inspired request context for handlers.
//
// Instead of accepting (http.ResponseWriter, *http.Request), a handler
// receives a single *Context with helper methods for everything:
//
//	func (h *CartController) Show(c *ctx.Context) {
//	    lines, err := h.carts.Get(c.Context(), c.UserID(""))
//	    if err != nil {
//	        c.Fail(err)
//	        return
//	    }
//	    c.Success(lines)
//	}
//
//	// Register with ctx.Wrap:
//	router.Get("/api/cart", "cart.show", ctx.Wrap(carts.Show))
package ctx

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/delish/pkg/bind"
	"github.com/shashiranjanraj/delish/pkg/logger"
	"github.com/shashiranjanraj/delish/pkg/middleware"
	"github.com/shashiranjanraj/delish/pkg/response"
	"github.com/shashiranjanraj/delish/pkg/validate"
)

// GuestUserID identifies a request that carries no user id at all.
const GuestUserID = "guest"

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc so it can be
// passed to any router method.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair and provides a rich helper API.
type Context struct {
	W      http.ResponseWriter
	R      *http.Request
	mu     sync.RWMutex
	store  map[string]any
	status int // written status code (0 = not written yet)
}

// pool recycles Context objects to reduce GC pressure.
var pool = sync.Pool{
	New: func() any { return &Context{store: make(map[string]any)} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	c.status = 0
	for k := range c.store {
		delete(c.store, k)
	}
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter (e.g. "/orders/{orderId}" → c.Param("orderId")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamInt returns a URL path parameter parsed as an int.
func (c *Context) ParamInt(key string) (int, error) {
	return strconv.Atoi(c.Param(key))
}

// Query returns a query-string value. Returns "" if not present.
func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// DefaultQuery returns a query-string value, or def if it is empty.
func (c *Context) DefaultQuery(key, def string) string {
	if v := c.Query(key); v != "" {
		return v
	}
	return def
}

// Header returns the value of a request header.
func (c *Context) Header(key string) string {
	return c.R.Header.Get(key)
}

// Cookie returns the value of a named cookie.
func (c *Context) Cookie(name string) (string, error) {
	cookie, err := c.R.Cookie(name)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}

// Method returns the HTTP method of the request.
func (c *Context) Method() string { return c.R.Method }

// Path returns the request URL path.
func (c *Context) Path() string { return c.R.URL.Path }

// ClientIP returns the real client IP, respecting X-Forwarded-For.
func (c *Context) ClientIP() string {
	return middleware.ClientIP(c.R)
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// UserID resolves who the request acts for: explicit (usually the userId
// field of the bound body), then the userId query parameter, then the
// cookie identity assigned by middleware.UserCookie, then GuestUserID.
func (c *Context) UserID(explicit string) string {
	if id := strings.TrimSpace(explicit); id != "" {
		return id
	}
	if id := strings.TrimSpace(c.Query("userId")); id != "" {
		return id
	}
	if id := middleware.UserIDFromCtx(c.Context()); id != "" {
		return id
	}
	return GuestUserID
}

// ─── Per-request store ────────────────────────────────────────────────────────

// Set stores a value in the per-request key-value store.
func (c *Context) Set(key string, val any) {
	c.mu.Lock()
	c.store[key] = val
	c.mu.Unlock()
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	return v, ok
}

// GetString returns a string value from the store, or "" if absent/wrong type.
func (c *Context) GetString(key string) string {
	v, _ := c.Get(key)
	s, _ := v.(string)
	return s
}

// ─── Binding / Validation ─────────────────────────────────────────────────────

// BindJSON decodes the JSON body into dest and runs validation.
// On validation failure it automatically sends a 422 response and returns false.
// On JSON decode error it sends a 400 and returns false.
//
//	var input LoginInput
//	if !c.BindJSON(&input) {
//	    return // response already sent
//	}
func (c *Context) BindJSON(dest any) bool {
	return c.handleBind(bind.JSON(c.R, dest))
}

// Bind decodes a JSON, urlencoded or multipart body into dest, matching
// form fields by json tag, and runs validation. Failure handling is the
// same as BindJSON.
func (c *Context) Bind(dest any) bool {
	return c.handleBind(bind.Auto(c.R, dest))
}

// ShouldBind is Bind without writing a response; an empty body is not an
// error.
func (c *Context) ShouldBind(dest any) (map[string]string, error) {
	errs, err := bind.Auto(c.R, dest)
	if err == bind.ErrEmptyBody {
		return nil, nil
	}
	return errs, err
}

func (c *Context) handleBind(errs map[string]string, err error) bool {
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		c.ValidationError(errs)
		return false
	}
	return true
}

// FormFile returns the uploaded file for field, or nil when none was sent.
// The body must have been bound with Bind or ShouldBind first.
func (c *Context) FormFile(field string) (*multipart.FileHeader, error) {
	return bind.File(c.R, field)
}

// Validate runs validation rules on an already-populated struct.
func (c *Context) Validate(v any) map[string]string {
	return validate.Struct(v)
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// SetHeader sets a response header.
func (c *Context) SetHeader(key, value string) {
	c.W.Header().Set(key, value)
}

// Status writes just the HTTP status code with an empty body.
func (c *Context) Status(code int) {
	c.status = code
	c.W.WriteHeader(code)
}

// JSON writes a JSON response with the given status code.
func (c *Context) JSON(code int, v any) {
	c.W.Header().Set("Content-Type", "application/json")
	c.W.WriteHeader(code)
	c.status = code
	json.NewEncoder(c.W).Encode(v) //nolint:errcheck
}

// Success sends a 200 JSON envelope: {"status":200,"data":...}
func (c *Context) Success(data any) {
	c.status = http.StatusOK
	response.Success(c.W, data)
}

// Message sends a 200 envelope carrying a message and data.
func (c *Context) Message(message string, data any) {
	c.status = http.StatusOK
	response.Message(c.W, message, data)
}

// Created sends a 201 JSON envelope.
func (c *Context) Created(message string, data any) {
	c.status = http.StatusCreated
	response.Created(c.W, message, data)
}

// Error sends a JSON error envelope with the given status and message.
func (c *Context) Error(code int, message string) {
	c.status = code
	response.Error(c.W, code, message)
}

// Fail maps err to a status by its kind and sends it. Server-side failures
// are logged with the request logger.
func (c *Context) Fail(err error) {
	status := response.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.WithCtx(c.Context()).Error("request failed", "path", c.Path(), "error", err)
	}
	c.status = status
	response.Fail(c.W, err)
}

// ValidationError sends a 422 Unprocessable Entity with field-level errors.
func (c *Context) ValidationError(errs map[string]string) {
	c.status = http.StatusUnprocessableEntity
	response.ValidationError(c.W, errs)
}

// Unauthorized sends a 401.
func (c *Context) Unauthorized(message ...string) {
	c.Error(http.StatusUnauthorized, first(message, "Unauthorized"))
}

// NotFound sends a 404.
func (c *Context) NotFound(message ...string) {
	c.Error(http.StatusNotFound, first(message, "Not found"))
}

// String writes a plain-text response.
func (c *Context) String(code int, format string, args ...any) {
	c.W.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.W.WriteHeader(code)
	c.status = code
	fmt.Fprintf(c.W, format, args...)
}

// WrittenStatus returns the HTTP status code that was written to the response,
// or 0 if no response has been written yet.
func (c *Context) WrittenStatus() int { return c.status }

func first(values []string, def string) string {
	if len(values) > 0 {
		return values[0]
	}
	return def
}
