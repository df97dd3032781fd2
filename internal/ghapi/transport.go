package ghapi

import (
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// CacheBustParam is the query parameter appended to GET requests.
const CacheBustParam = "_ts"

// RequestIDHeader carries the id assigned to each outgoing request.
const RequestIDHeader = "X-Request-Id"

// authTransport attaches "Authorization: token <PAT>" when a token resolves.
// Requests without a token are sent unauthenticated.
type authTransport struct {
	base   http.RoundTripper
	tokens TokenResolver
	logger *slog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := resolveToken(t.tokens, t.logger)
	if !ok {
		return t.base.RoundTrip(req)
	}

	// TokenType "token" makes oauth2 emit the PAT header form the API expects
	tr := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "token"}),
		Base:   t.base,
	}

	return tr.RoundTrip(req)
}

// cacheBustTransport appends a strictly increasing millisecond timestamp to
// GET requests.
type cacheBustTransport struct {
	base http.RoundTripper
	now  func() time.Time

	mu   sync.Mutex
	last int64
}

func (t *cacheBustTransport) next() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	v := t.now().UnixMilli()
	if v <= t.last {
		v = t.last + 1
	}

	t.last = v

	return v
}

func (t *cacheBustTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return t.base.RoundTrip(req)
	}

	req = req.Clone(req.Context())

	q := req.URL.Query()
	q.Set(CacheBustParam, strconv.FormatInt(t.next(), 10))
	req.URL.RawQuery = q.Encode()

	return t.base.RoundTrip(req)
}

type headerTransport struct {
	base http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Accept", MediaType)

	return t.base.RoundTrip(req)
}

type loggingTransport struct {
	base   http.RoundTripper
	logger *slog.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	id := uuid.NewString()

	req = req.Clone(req.Context())
	req.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := t.base.RoundTrip(req)

	attrs := []any{
		slog.String("request_id", id),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Duration("duration", time.Since(start)),
	}

	if err != nil {
		t.logger.Debug("api request failed", append(attrs, slog.String("error", err.Error()))...)
		return nil, err
	}

	t.logger.Debug("api request", append(attrs, slog.Int("status", resp.StatusCode))...)

	return resp, nil
}
