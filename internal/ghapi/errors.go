package ghapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v82/github"
)

// APIError is the normalized shape of a failed request.
type APIError struct {
	// Status is the HTTP status code, 0 when no response was received
	Status int

	// Message is the server's "message" field when present, otherwise the
	// transport error text
	Message string

	// Details holds the entries of the server's "errors" array
	Details []string

	// RateLimited is set when the server reported an exhausted rate limit
	RateLimited bool

	// Transport is set when the request never produced a response
	Transport bool

	// FromServer is set when Message came from the response body
	FromServer bool

	Err error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Detail returns the message followed by the detail entries, if any.
func (e *APIError) Detail() string {
	if len(e.Details) == 0 {
		return e.Message
	}

	return e.Message + " (" + strings.Join(e.Details, "; ") + ")"
}

// Normalize reduces err to an APIError. It returns nil for a nil error.
func Normalize(err error) *APIError {
	if err == nil {
		return nil
	}

	var existing *APIError
	if errors.As(err, &existing) {
		return existing
	}

	out := &APIError{Message: err.Error(), Err: err}

	var (
		rateErr  *github.RateLimitError
		abuseErr *github.AbuseRateLimitError
		respErr  *github.ErrorResponse
	)

	switch {
	case errors.As(err, &rateErr):
		out.Status = statusOf(rateErr.Response)
		out.RateLimited = true
		out.setServerMessage(rateErr.Message)
	case errors.As(err, &abuseErr):
		out.Status = statusOf(abuseErr.Response)
		out.RateLimited = true
		out.setServerMessage(abuseErr.Message)
	case errors.As(err, &respErr):
		out.Status = statusOf(respErr.Response)
		out.RateLimited = out.Status == http.StatusTooManyRequests ||
			(respErr.Response != nil && respErr.Response.Header.Get("X-RateLimit-Remaining") == "0")
		out.setServerMessage(respErr.Message)

		for _, e := range respErr.Errors {
			if d := firstNonEmpty(e.Message, strings.TrimSpace(e.Resource+" "+e.Code)); d != "" {
				out.Details = append(out.Details, d)
			}
		}
	default:
		out.Transport = isTransport(err)
	}

	return out
}

func (e *APIError) setServerMessage(msg string) {
	if msg == "" {
		return
	}

	e.Message = msg
	e.FromServer = true
}

func isTransport(err error) bool {
	var (
		urlErr *url.Error
		netErr net.Error
	)

	return errors.As(err, &urlErr) ||
		errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled)
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}

	return resp.StatusCode
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
