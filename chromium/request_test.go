package chromium

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuxd6825/steplog/api"
)

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"query":       r.URL.RawQuery,
			"body":        string(body),
			"contentType": r.Header.Get("Content-Type"),
			"token":       r.Header.Get("X-Token"),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRequest(t *testing.T) {
	t.Parallel()

	srv := newEchoServer(t)
	req := NewRequest(RequestOptions{BaseURL: srv.URL + "/api/", Headers: map[string]string{"X-Token": "abc"}})

	type echo struct {
		Method      string `json:"method"`
		Path        string `json:"path"`
		Query       string `json:"query"`
		Body        string `json:"body"`
		ContentType string `json:"contentType"`
		Token       string `json:"token"`
	}

	testCases := []struct {
		name string
		call func() (api.APIResponse, error)
		want echo
	}{
		{
			name: "get with params",
			call: func() (api.APIResponse, error) {
				return req.Get("users", &api.RequestOptions{Params: map[string]string{"q": "a b"}})
			},
			want: echo{Method: "GET", Path: "/api/users", Query: url.Values{"q": {"a b"}}.Encode(), Token: "abc"},
		},
		{
			name: "post json",
			call: func() (api.APIResponse, error) {
				return req.Post("users", &api.RequestOptions{Data: map[string]string{"name": "Ada"}})
			},
			want: echo{Method: "POST", Path: "/api/users", Body: `{"name":"Ada"}`, ContentType: "application/json", Token: "abc"},
		},
		{
			name: "put text",
			call: func() (api.APIResponse, error) {
				return req.Put("/raw", &api.RequestOptions{Data: "hello"})
			},
			want: echo{Method: "PUT", Path: "/raw", Body: "hello", ContentType: "text/plain; charset=utf-8", Token: "abc"},
		},
		{
			name: "fetch with method and header override",
			call: func() (api.APIResponse, error) {
				return req.Fetch("items/1", &api.RequestOptions{Method: "delete", Headers: map[string]string{"X-Token": "xyz"}})
			},
			want: echo{Method: "DELETE", Path: "/api/items/1", Token: "xyz"},
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			res, err := tc.call()
			require.NoError(t, err)
			assert.True(t, res.OK())
			assert.Equal(t, http.StatusOK, res.Status())
			assert.Equal(t, "OK", res.StatusText())
			assert.Equal(t, "application/json", res.Headers()["content-type"])

			var got echo
			require.NoError(t, res.JSON(&got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRequestStatus(t *testing.T) {
	t.Parallel()

	srv := newEchoServer(t)
	req := NewRequest(RequestOptions{BaseURL: srv.URL})

	res, err := req.Get("/missing", nil)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, http.StatusNotFound, res.Status())
	assert.Equal(t, "Not Found", res.StatusText())

	res, err = req.Get("/missing", &api.RequestOptions{FailOnStatusCode: true})
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Contains(t, err.Error(), "404")

	_, err = req.Fetch("/", &api.RequestOptions{Method: "TRACE"})
	require.ErrorIs(t, err, ErrUnsupportedMethod)

	require.NoError(t, req.Dispose())
	_, err = req.Get("/", nil)
	require.True(t, errors.Is(err, ErrClosed))
}

func TestCookieMatches(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		domain, path string
		secure       bool
		url          string
		want         bool
	}{
		{domain: "example.com", path: "/", url: "https://example.com/", want: true},
		{domain: ".example.com", path: "/", url: "http://shop.example.com/cart", want: true},
		{domain: "example.com", path: "/admin", url: "https://example.com/", want: false},
		{domain: "example.com", path: "/", secure: true, url: "http://example.com/", want: false},
		{domain: "other.com", path: "/", url: "https://example.com/", want: false},
		{domain: "ample.com", path: "/", url: "https://example.com/", want: false},
	}
	for _, tc := range testCases {
		u, err := url.Parse(tc.url)
		require.NoError(t, err)
		assert.Equal(t, tc.want, cookieMatches(tc.domain, tc.path, tc.secure, u), "%s%s on %s", tc.domain, tc.path, tc.url)
	}
}
