package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeRequestSetsBearerAndHeaders(t *testing.T) {
	var gotAuth, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCustom = r.Header.Get("X-Client")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	c.SetHeader("X-Client", "crowdstage")

	body, err := c.MakeRequest(context.Background(), http.MethodGet, "/ping", "tok-123", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(body))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "crowdstage", gotCustom)
}

func TestMakeRequestReturnsAPIErrorWithStatusHeaderBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"detail":"slow down"}`))
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	_, err := c.MakeRequest(context.Background(), http.MethodPost, "/submit", "", nil)
	require.Error(t, err)

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "5", apiErr.Header.Get("Retry-After"))
	assert.JSONEq(t, `{"detail":"slow down"}`, string(apiErr.Body))
}

func TestMakeRequestHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewBaseClient(srv.URL)
	_, err := c.MakeRequest(ctx, http.MethodGet, "/slow", "", nil)
	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok, "cancellation is a transport error, not an API error")
}

func TestGetJSONDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"demo","count":3}`))
	}))
	defer srv.Close()

	var out struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	c := NewBaseClient(srv.URL)
	require.NoError(t, c.GetJSON(context.Background(), "/thing", "", &out))
	assert.Equal(t, "demo", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestPostJSONSendsBody(t *testing.T) {
	var gotBody string
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL)
	in := map[string]string{"email": "a@b.c"}
	require.NoError(t, c.PostJSON(context.Background(), "/req", "", in, nil))
	assert.JSONEq(t, `{"email":"a@b.c"}`, gotBody)
	assert.Equal(t, "application/json", gotContentType)
}
