package ghapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/repodeck/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method        string
	Path          string
	Authorization string
	Accept        string
	RequestID     string
	CacheBust     string
}

type recorder struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (r *recorder) handler(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.requests = append(r.requests, capturedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Authorization: req.Header.Get("Authorization"),
			Accept:        req.Header.Get("Accept"),
			RequestID:     req.Header.Get(RequestIDHeader),
			CacheBust:     req.URL.Query().Get(CacheBustParam),
		})
		r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenResolver, now func() time.Time) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{BaseURL: srv.URL, Tokens: tokens, Now: now})
	require.NoError(t, err)

	return c
}

func TestClient_AttachesTokenHeader(t *testing.T) {
	rec := &recorder{}
	tokens := auth.NewResolver("GitHub").WithValue("test", "ghp_secret")
	c := newTestClient(t, rec.handler(http.StatusOK, `{"login":"alice"}`), tokens, nil)

	_, _, err := c.Users().Get(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, rec.requests, 1)
	got := rec.requests[0]
	assert.Equal(t, "token ghp_secret", got.Authorization)
	assert.Equal(t, MediaType, got.Accept)
	assert.NotEmpty(t, got.RequestID)
	assert.Equal(t, "/user", got.Path)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	rec := &recorder{}
	c := newTestClient(t, rec.handler(http.StatusOK, `{"login":"alice"}`), auth.NewResolver("GitHub"), nil)

	assert.False(t, c.HasToken())

	_, _, err := c.Users().Get(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, rec.requests, 1)
	assert.Empty(t, rec.requests[0].Authorization)
}

func TestClient_HasToken(t *testing.T) {
	c, err := New(Options{Tokens: auth.NewResolver("GitHub").WithValue("test", "tok")})
	require.NoError(t, err)
	assert.True(t, c.HasToken())
	assert.Equal(t, DefaultBaseURL+"/", c.BaseURL())

	c, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, c.HasToken())
}

func TestClient_CacheBustOnlyOnGet(t *testing.T) {
	rec := &recorder{}
	mux := http.NewServeMux()
	mux.HandleFunc("/user", rec.handler(http.StatusOK, `{"login":"alice"}`))
	mux.HandleFunc("/repos/alice/demo", rec.handler(http.StatusNoContent, ``))

	fixed := time.UnixMilli(1_700_000_000_000)
	c := newTestClient(t, mux, nil, func() time.Time { return fixed })

	ctx := context.Background()

	_, _, err := c.Users().Get(ctx, "")
	require.NoError(t, err)

	_, _, err = c.Users().Get(ctx, "")
	require.NoError(t, err)

	_, err = c.Repositories().Delete(ctx, "alice", "demo")
	require.NoError(t, err)

	require.Len(t, rec.requests, 3)

	first, err := strconv.ParseInt(rec.requests[0].CacheBust, 10, 64)
	require.NoError(t, err)

	second, err := strconv.ParseInt(rec.requests[1].CacheBust, 10, 64)
	require.NoError(t, err)

	assert.Equal(t, fixed.UnixMilli(), first)
	assert.Greater(t, second, first, "cache-bust values must strictly increase")

	assert.Equal(t, http.MethodDelete, rec.requests[2].Method)
	assert.Empty(t, rec.requests[2].CacheBust)
}

func TestClient_InvalidBaseURL(t *testing.T) {
	_, err := New(Options{BaseURL: "://bad"})
	require.Error(t, err)
}

func TestNormalize(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		assert.Nil(t, Normalize(nil))
	})

	t.Run("server message and details", func(t *testing.T) {
		body := `{"message":"Repository creation failed.","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`
		c := newTestClient(t, (&recorder{}).handler(http.StatusUnprocessableEntity, body), nil, nil)

		_, _, err := c.Repositories().Create(context.Background(), "", &github.Repository{Name: github.Ptr("demo")})
		require.Error(t, err)

		apiErr := Normalize(err)
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "Repository creation failed.", apiErr.Message)
		assert.Equal(t, []string{"name already exists on this account"}, apiErr.Details)
		assert.Equal(t, "Repository creation failed. (name already exists on this account)", apiErr.Detail())
		assert.False(t, apiErr.Transport)
		assert.ErrorIs(t, apiErr, err)
	})

	t.Run("detail falls back to resource and code", func(t *testing.T) {
		body := `{"message":"Validation Failed","errors":[{"resource":"Repository","code":"already_exists","field":"name"}]}`
		c := newTestClient(t, (&recorder{}).handler(http.StatusUnprocessableEntity, body), nil, nil)

		_, _, err := c.Repositories().Create(context.Background(), "", &github.Repository{Name: github.Ptr("demo")})
		apiErr := Normalize(err)
		assert.Equal(t, []string{"Repository already_exists"}, apiErr.Details)
	})

	t.Run("rate limited", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Limit", "60")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(-time.Minute).Unix(), 10))
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"message":"API rate limit exceeded"}`))
		})
		c := newTestClient(t, handler, nil, nil)

		_, _, err := c.Users().Get(context.Background(), "")
		apiErr := Normalize(err)
		assert.Equal(t, http.StatusForbidden, apiErr.Status)
		assert.True(t, apiErr.RateLimited)
		assert.Equal(t, "API rate limit exceeded", apiErr.Message)
	})

	t.Run("too many requests", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"You have exceeded a secondary rate limit"}`))
		})
		c := newTestClient(t, handler, nil, nil)

		_, _, err := c.Users().Get(context.Background(), "")
		apiErr := Normalize(err)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
		assert.True(t, apiErr.RateLimited)
		assert.Equal(t, "You have exceeded a secondary rate limit", apiErr.Message)
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		c, err := New(Options{BaseURL: srv.URL})
		require.NoError(t, err)

		_, _, err = c.Users().Get(context.Background(), "")
		require.Error(t, err)

		apiErr := Normalize(err)
		assert.True(t, apiErr.Transport)
		assert.Zero(t, apiErr.Status)
		assert.NotEmpty(t, apiErr.Message)
	})

	t.Run("already normalized", func(t *testing.T) {
		in := &APIError{Status: 404, Message: "Not Found"}
		assert.Same(t, in, Normalize(in))
	})
}
