package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/delish/pkg/reqid"
)

func run(header string) (ctxID, respID string) {
	h := reqid.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = reqid.FromCtx(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(reqid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return ctxID, rec.Header().Get(reqid.Header)
}

func TestGeneratesID(t *testing.T) {
	ctxID, respID := run("")
	assert.Equal(t, ctxID, respID)
	_, err := uuid.Parse(ctxID)
	assert.NoError(t, err)
}

func TestReusesUpstreamID(t *testing.T) {
	ctxID, _ := run("edge-42.a_b")
	assert.Equal(t, "edge-42.a_b", ctxID)
}

func TestReplacesUnsafeID(t *testing.T) {
	for _, bad := range []string{"has space", "new\nline", strings.Repeat("x", 65)} {
		ctxID, _ := run(bad)
		assert.NotEqual(t, bad, ctxID)
		assert.NotEmpty(t, ctxID)
	}
}
