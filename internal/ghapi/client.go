// Package ghapi builds the HTTP client used to talk to the remote API.
//
// Every request goes through a transport chain that tags it with a request id
// and logs it, sets the Accept header, appends a cache-busting parameter to
// GET requests, and attaches "Authorization: token <PAT>" when a token can be
// resolved. Failures are reduced to an [APIError] by [Normalize].
package ghapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/repodeck/internal/auth"
)

const (
	// DefaultBaseURL is the public GitHub REST endpoint.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout bounds every request.
	DefaultTimeout = 10 * time.Second

	// MediaType is sent as the Accept header.
	MediaType = "application/vnd.github+json"
)

// TokenResolver yields the token attached to outgoing requests.
// auth.Resolver implements it.
type TokenResolver interface {
	Resolve() (*auth.Result, error)
}

// Options configures New.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Tokens    TokenResolver
	UserAgent string
	Logger    *slog.Logger

	// Transport is the innermost round tripper (default http.DefaultTransport).
	Transport http.RoundTripper

	// Now is the clock used for cache-busting values (default time.Now).
	Now func() time.Time
}

// Client is a configured API client.
type Client struct {
	gh      *github.Client
	tokens  TokenResolver
	logger  *slog.Logger
	baseURL *url.URL
}

// New builds a client from opts.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Transport == nil {
		opts.Transport = http.DefaultTransport
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	base, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", opts.BaseURL, err)
	}

	var rt http.RoundTripper = opts.Transport
	rt = &authTransport{base: rt, tokens: opts.Tokens, logger: opts.Logger}
	rt = &cacheBustTransport{base: rt, now: opts.Now}
	rt = &headerTransport{base: rt}
	rt = &loggingTransport{base: rt, logger: opts.Logger}

	gh := github.NewClient(&http.Client{Transport: rt, Timeout: opts.Timeout})
	gh.BaseURL = base

	if opts.UserAgent != "" {
		gh.UserAgent = opts.UserAgent
	}

	return &Client{
		gh:      gh,
		tokens:  opts.Tokens,
		logger:  opts.Logger,
		baseURL: base,
	}, nil
}

// Repositories returns the repositories API.
func (c *Client) Repositories() *github.RepositoriesService {
	return c.gh.Repositories
}

// Users returns the users API.
func (c *Client) Users() *github.UsersService {
	return c.gh.Users
}

// BaseURL returns the API endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// HasToken reports whether a token can currently be resolved.
func (c *Client) HasToken() bool {
	_, ok := resolveToken(c.tokens, c.logger)
	return ok
}

func resolveToken(tokens TokenResolver, logger *slog.Logger) (string, bool) {
	if tokens == nil {
		return "", false
	}

	res, err := tokens.Resolve()
	if err != nil {
		if !errors.Is(err, auth.ErrNoToken) {
			logger.Warn("token resolution failed", slog.String("error", err.Error()))
		}

		return "", false
	}

	return res.Token, res.Token != ""
}
