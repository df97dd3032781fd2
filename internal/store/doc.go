// Package store provides the persisted key-value area used by repodeck.
//
// The [KV] interface groups opaque values into named buckets. Two backends
// implement it:
//   - [Bolt] (default): an embedded bbolt file
//   - [SQLite]: a single-table SQLite database, selected with
//     storage.driver: sqlite
//
// Use [Open] to pick the backend from configuration:
//
//	kv, err := store.Open(cfg.Storage.Driver, path)
//	value, err := kv.Get(store.BucketDrafts, "created_repos")
//
// Get returns [ErrNotFound] for absent keys.
package store
