package giturl

import (
	"fmt"
	"strings"

	"github.com/inovacc/repodeck/internal/model"
)

// Ref identifies a repository. Owner is empty for a bare name that could not
// be qualified, which is how local drafts are addressed.
type Ref struct {
	Host  string
	Owner string
	Name  string
}

// Qualified reports whether both owner and name are known.
func (r Ref) Qualified() bool {
	return r.Owner != "" && r.Name != ""
}

// String returns "owner/name", or the name alone when unqualified.
func (r Ref) String() string {
	if r.Owner == "" {
		return r.Name
	}

	return r.Owner + "/" + r.Name
}

// ParseRef parses a repository argument:
//   - "name" (owner taken from defaultOwner, possibly empty)
//   - "owner/name"
//   - "host/owner/name"
//   - any remote URL accepted by ParseRemote, including browser links such
//     as "https://github.com/owner/name/tree/main"
func ParseRef(arg, defaultOwner string) (Ref, error) {
	s := strings.TrimSpace(arg)
	if s == "" {
		return Ref{}, fmt.Errorf("empty repository reference")
	}

	if strings.Contains(s, ":") && !strings.Contains(s, `\`) {
		return refFromRemote(s)
	}

	parts := strings.Split(strings.TrimSuffix(s, ".git"), "/")

	var ref Ref

	switch len(parts) {
	case 1:
		ref = Ref{Host: model.DefaultHost, Owner: defaultOwner, Name: parts[0]}
	case 2:
		ref = Ref{Host: model.DefaultHost, Owner: parts[0], Name: parts[1]}
	case 3:
		ref = Ref{Host: normalizeHost(parts[0]), Owner: parts[1], Name: parts[2]}
	default:
		return Ref{}, fmt.Errorf("invalid repository %q: expected name, owner/name or host/owner/name", arg)
	}

	if ref.Name == "" || (len(parts) > 1 && ref.Owner == "") {
		return Ref{}, fmt.Errorf("invalid repository %q: owner and name cannot be empty", arg)
	}

	return ref, nil
}

func refFromRemote(raw string) (Ref, error) {
	u, err := ParseRemote(raw)
	if err != nil {
		return Ref{}, err
	}

	owner, name, err := ownerRepo(u)
	if err != nil {
		return Ref{}, fmt.Errorf("invalid repository URL %q: %w", raw, err)
	}

	return Ref{Host: normalizeHost(u.Hostname()), Owner: owner, Name: name}, nil
}

func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimPrefix(host, "www."))
	if host == "" {
		return model.DefaultHost
	}

	return host
}
