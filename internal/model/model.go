package model

import "fmt"

// DefaultHost is the web host repositories are browsed on.
const DefaultHost = "github.com"

// Repository is a repository record as shown to the user. It is produced from
// server responses or created locally as a draft.
type Repository struct {
	// Name is unique within the owning account
	Name string `json:"name"`

	// Description is nil when the repository has none
	Description *string `json:"description"`

	// ImageURL is the owner's avatar
	ImageURL *string `json:"imageUrl"`

	// Owner is the login of the owning account. A nil owner marks a draft
	// that has not been confirmed by the server.
	Owner *string `json:"owner"`

	Language *string `json:"language"`
	Stars    int     `json:"stars"`
	Private  bool    `json:"private,omitempty"`
}

// IsDraft reports whether the record has no confirmed owner.
func (r Repository) IsDraft() bool {
	return r.Owner == nil || *r.Owner == ""
}

// FullName returns "owner/name", or just the name for drafts.
func (r Repository) FullName() string {
	if r.IsDraft() {
		return r.Name
	}

	return fmt.Sprintf("%s/%s", *r.Owner, r.Name)
}

// HTMLURL returns the browser URL of the repository, or an empty string for
// drafts.
func (r Repository) HTMLURL(host string) string {
	if r.IsDraft() {
		return ""
	}

	if host == "" {
		host = DefaultHost
	}

	return fmt.Sprintf("https://%s/%s/%s", host, *r.Owner, r.Name)
}

// CreateRequest holds the fields accepted when creating a repository.
type CreateRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
}

// EditRequest is a partial update. Nil fields are left unchanged.
type EditRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Private     *bool   `json:"private,omitempty"`
}

// IsEmpty reports whether the request changes nothing.
func (r EditRequest) IsEmpty() bool {
	return r.Name == nil && r.Description == nil && r.Private == nil
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

// StringValue dereferences p, returning "" for nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}
