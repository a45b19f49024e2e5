package bind_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/delish/pkg/bind"
)

type Contact struct {
	ClientName string `json:"clientName"`
}

type orderForm struct {
	UserID string `json:"userId" validate:"required"`
	Items  string `json:"items"`
	Qty    int    `json:"quantity"`
	Contact
}

func TestJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"userId":"u1","quantity":3}`))
	var in orderForm
	errs, err := bind.JSON(req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, 3, in.Qty)
}

func TestJSONErrors(t *testing.T) {
	var in orderForm
	_, err := bind.JSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``)), &in)
	assert.ErrorIs(t, err, bind.ErrEmptyBody)

	_, err = bind.JSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)), &in)
	assert.ErrorContains(t, err, "invalid JSON")

	errs, err := bind.JSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`)), &in)
	require.NoError(t, err)
	assert.Contains(t, errs, "userId")
}

func TestFormURLEncoded(t *testing.T) {
	body := url.Values{"userId": {"u1"}, "quantity": {"2"}, "clientName": {"Ama"}}
	req := httptest.NewRequest(http.MethodPost, "/?userId=fromquery", strings.NewReader(body.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var in orderForm
	errs, err := bind.Auto(req, &in)
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, "u1", in.UserID, "body wins over query")
	assert.Equal(t, 2, in.Qty)
	assert.Equal(t, "Ama", in.ClientName)
}

func TestMultipartWithFile(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("userId", "u9"))
	require.NoError(t, mw.WriteField("items", `[{"itemId":"h1"}]`))
	fw, err := mw.CreateFormFile("paymentImage", "proof.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("png"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/?userId=q", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var in orderForm
	_, err = bind.Auto(req, &in)
	require.NoError(t, err)
	assert.Equal(t, "u9", in.UserID)
	assert.Equal(t, `[{"itemId":"h1"}]`, in.Items)

	fh, err := bind.File(req, "paymentImage")
	require.NoError(t, err)
	require.NotNil(t, fh)
	assert.Equal(t, "proof.png", fh.Filename)

	none, err := bind.File(req, "other")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestFormRejectsBadNumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("userId=u&quantity=lots"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var in orderForm
	_, err := bind.Form(req, &in)
	assert.ErrorContains(t, err, "quantity")
}
