package store

import (
	"errors"
	"fmt"
)

// Buckets used by repodeck.
const (
	BucketCredentials = "credentials" // key: well-known credential key -> raw value
	BucketDrafts      = "drafts"      // key: "created_repos" -> JSON array of repositories
)

// Drivers accepted by Open.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// KV is the persisted key-value area shared by the credential and draft
// stores. Values are opaque bytes grouped in buckets.
type KV interface {
	Ping() error
	Get(bucket, key string) ([]byte, error)
	Put(bucket, key string, value []byte) error
	Delete(bucket, key string) error
	Close() error
}

// Open opens the backend named by driver at path.
func Open(driver, path string) (KV, error) {
	switch driver {
	case "", DriverBolt:
		return NewBolt(path)
	case DriverSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
