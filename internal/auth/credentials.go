package auth

import (
	"errors"
	"fmt"

	"github.com/inovacc/repodeck/internal/model"
	"github.com/inovacc/repodeck/internal/store"
)

// Well-known keys in store.BucketCredentials.
const (
	TokenKey    = "github_auth_token"
	UsernameKey = "github_auth_username"
)

// CredentialStore persists the username/token pair used to authenticate.
type CredentialStore struct {
	kv store.KV
}

// NewCredentialStore returns a credential store backed by kv.
func NewCredentialStore(kv store.KV) *CredentialStore {
	return &CredentialStore{kv: kv}
}

// Login replaces any stored credentials with username and token. It returns
// false, leaving storage untouched, unless both values are non-empty. The
// error only reports storage failures.
func (c *CredentialStore) Login(username, token string) (bool, error) {
	if username == "" || token == "" {
		return false, nil
	}

	if err := c.Logout(); err != nil {
		return false, err
	}

	if err := c.kv.Put(store.BucketCredentials, TokenKey, []byte(token)); err != nil {
		return false, fmt.Errorf("saving token: %w", err)
	}

	if err := c.kv.Put(store.BucketCredentials, UsernameKey, []byte(username)); err != nil {
		return false, fmt.Errorf("saving username: %w", err)
	}

	return true, nil
}

// Logout removes both stored values.
func (c *CredentialStore) Logout() error {
	return errors.Join(
		c.kv.Delete(store.BucketCredentials, TokenKey),
		c.kv.Delete(store.BucketCredentials, UsernameKey),
	)
}

// IsAuthenticated reports whether both token and username are stored.
func (c *CredentialStore) IsAuthenticated() bool {
	return c.Credentials().Complete()
}

// Token returns the stored token and whether it is present.
func (c *CredentialStore) Token() (string, bool) {
	return c.value(TokenKey)
}

// Username returns the stored username and whether it is present.
func (c *CredentialStore) Username() (string, bool) {
	return c.value(UsernameKey)
}

// Credentials returns the stored pair. Missing halves are empty.
func (c *CredentialStore) Credentials() model.Credentials {
	token, _ := c.Token()
	username, _ := c.Username()

	return model.Credentials{Username: username, Token: token}
}

func (c *CredentialStore) value(key string) (string, bool) {
	v, err := c.kv.Get(store.BucketCredentials, key)
	if err != nil || len(v) == 0 {
		return "", false
	}

	return string(v), true
}
