// Package giturl resolves repository references given on the command line or
// found in a working copy's git configuration.
package giturl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errInvalidPath = errors.New("invalid path: expected owner/repo")

// ParseRemote parses a git remote URL. Besides http(s), ssh, git and
// git+ssh/git+https URLs it accepts the scp-like form
// "git@github.com:owner/repo.git".
func ParseRemote(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, errors.New("empty remote URL")
	}

	if isSCPLike(s) {
		userHost, path, _ := strings.Cut(s, ":")

		user, host, _ := strings.Cut(userHost, "@")
		if user == "" || host == "" || path == "" {
			return nil, fmt.Errorf("invalid SSH remote URL: %s", raw)
		}

		return &url.URL{
			Scheme: "ssh",
			User:   url.User(user),
			Host:   host,
			Path:   "/" + strings.TrimPrefix(path, "/"),
		}, nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %s", raw)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "git":
	case "git+https":
		u.Scheme = "https"
	case "ssh", "git+ssh":
		u.Scheme = "ssh"
		u.Host = strings.TrimSuffix(u.Host, ":"+u.Port())
	case "":
		return nil, fmt.Errorf("remote URL is missing a scheme: %s", raw)
	default:
		return nil, fmt.Errorf("unsupported remote URL scheme %q: %s", u.Scheme, raw)
	}

	if u.Host == "" {
		return nil, fmt.Errorf("remote URL is missing a host: %s", raw)
	}

	return u, nil
}

// ownerRepo returns the first two path segments of u, dropping any ".git"
// suffix and deeper segments such as "/blob/main/file.go".
func ownerRepo(u *url.URL) (owner, name string, err error) {
	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errInvalidPath
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

func isSCPLike(s string) bool {
	i := strings.IndexByte(s, ':')
	if i <= 0 || hasScheme(s) {
		return false
	}

	return strings.IndexByte(s[:i], '@') > 0
}

func hasScheme(s string) bool {
	scheme, _, ok := strings.Cut(s, "://")
	return ok && scheme != "" && !strings.ContainsAny(scheme, "@/")
}
