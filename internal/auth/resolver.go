// Package auth stores the user's credentials and resolves the token attached
// to API requests. Token sources are checked in a configurable priority order.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	ghauth "github.com/cli/go-gh/v2/pkg/auth"
)

// Source classifies where a resolved token came from.
type Source string

const (
	SourceValue Source = "value"
	SourceEnv   Source = "env"
	SourceStore Source = "store"
	SourceCLI   Source = "cli"
	SourceNone  Source = "none"
)

// ErrNoToken is returned by Resolve when no source provides a token.
var ErrNoToken = errors.New("no token available")

// Result is a resolved token. Name identifies the concrete origin, for example
// "GITHUB_API_TOKEN" or "store:credentials".
type Result struct {
	Token  string
	Source Source
	Name   string
}

// TokenProvider reports a token and the name of its origin. An empty token
// means the provider has nothing to offer; err is reserved for real failures.
type TokenProvider func() (token string, sourceName string, err error)

type candidate struct {
	kind  Source
	fetch TokenProvider
}

// Resolver walks its candidates in the order they were added and returns the
// first non-empty token.
type Resolver struct {
	label      string
	hint       string
	candidates []candidate
}

// NewResolver returns an empty resolver. label prefixes the ErrNoToken message.
func NewResolver(label string) *Resolver {
	return &Resolver{label: label}
}

func (r *Resolver) add(kind Source, fetch TokenProvider) *Resolver {
	r.candidates = append(r.candidates, candidate{kind: kind, fetch: fetch})
	return r
}

// WithValue uses a fixed value, typically read from the configuration file.
func (r *Resolver) WithValue(name, value string) *Resolver {
	return r.add(SourceValue, func() (string, string, error) {
		return value, name, nil
	})
}

// WithEnv reads envVar at resolution time.
func (r *Resolver) WithEnv(envVar string) *Resolver {
	return r.add(SourceEnv, func() (string, string, error) {
		return os.Getenv(envVar), envVar, nil
	})
}

// WithCredentials reads the persisted credential store at resolution time so a
// login takes effect without rebuilding the resolver.
func (r *Resolver) WithCredentials(creds *CredentialStore) *Resolver {
	return r.add(SourceStore, func() (string, string, error) {
		token, _ := creds.Token()
		return token, "store:credentials", nil
	})
}

// WithGHCLI asks the gh CLI configuration (keyring or hosts file) for host.
func (r *Resolver) WithGHCLI(host string) *Resolver {
	return r.add(SourceCLI, func() (string, string, error) {
		token, _ := ghauth.TokenForHost(host)
		return token, "cli:gh", nil
	})
}

// WithProvider appends a custom provider. Its source is derived from the name
// it reports.
func (r *Resolver) WithProvider(provider TokenProvider) *Resolver {
	return r.add("", provider)
}

// WithHelpMessage sets the hint appended to the ErrNoToken error.
func (r *Resolver) WithHelpMessage(msg string) *Resolver {
	r.hint = msg
	return r
}

// Resolve returns the first token found. A provider failure stops the walk.
func (r *Resolver) Resolve() (*Result, error) {
	for _, c := range r.candidates {
		token, name, err := c.fetch()
		if err != nil {
			return nil, fmt.Errorf("token provider error: %w", err)
		}

		if token == "" {
			continue
		}

		kind := c.kind
		if kind == "" {
			kind = categorizeSource(name)
		}

		return &Result{Token: token, Source: kind, Name: name}, nil
	}

	err := fmt.Errorf("%s %w", r.label, ErrNoToken)
	if r.hint != "" {
		err = fmt.Errorf("%w\n\n%s", err, r.hint)
	}

	return nil, err
}

// categorizeSource guesses the Source of a custom provider from its name.
func categorizeSource(name string) Source {
	switch {
	case name == "":
		return SourceNone
	case strings.HasPrefix(name, "store:"):
		return SourceStore
	case strings.HasPrefix(name, "cli:"):
		return SourceCLI
	case strings.ToUpper(name) == name:
		return SourceEnv
	default:
		return SourceValue
	}
}
