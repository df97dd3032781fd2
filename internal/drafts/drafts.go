// Package drafts keeps the locally persisted list of repositories created
// from this machine and merges it with the remote listing.
//
// The list is stored as a single JSON array under one key. A missing or
// unreadable value reads as an empty list.
package drafts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/inovacc/repodeck/internal/model"
	"github.com/inovacc/repodeck/internal/store"
	"github.com/samber/lo"
)

// Key is the storage key of the draft list in store.BucketDrafts.
const Key = "created_repos"

// Store persists the draft list.
type Store struct {
	kv     store.KV
	logger *slog.Logger
}

// NewStore returns a draft store backed by kv. A nil logger uses
// slog.Default().
func NewStore(kv store.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{kv: kv, logger: logger}
}

// Load returns the saved list, newest first. Absent or corrupt data yields an
// empty list.
func (s *Store) Load() []model.Repository {
	data, err := s.kv.Get(store.BucketDrafts, Key)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to read drafts", slog.String("error", err.Error()))
		}

		return []model.Repository{}
	}

	var list []model.Repository
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("ignoring corrupt drafts", slog.String("error", err.Error()))
		return []model.Repository{}
	}

	if list == nil {
		list = []model.Repository{}
	}

	return list
}

// Save replaces the stored list.
func (s *Store) Save(list []model.Repository) error {
	if list == nil {
		list = []model.Repository{}
	}

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding drafts: %w", err)
	}

	if err := s.kv.Put(store.BucketDrafts, Key, data); err != nil {
		return fmt.Errorf("saving drafts: %w", err)
	}

	return nil
}

// Add puts rec at the front of the list.
func (s *Store) Add(rec model.Repository) error {
	return s.Save(append([]model.Repository{rec}, s.Load()...))
}

// Find returns the first saved record named name.
func (s *Store) Find(name string) (model.Repository, bool) {
	return lo.Find(s.Load(), func(r model.Repository) bool {
		return r.Name == name
	})
}

// Update applies req to the first record named name. It reports false, and
// writes nothing, when no such record exists.
func (s *Store) Update(name string, req model.EditRequest) (bool, error) {
	list := s.Load()

	_, i, ok := lo.FindIndexOf(list, func(r model.Repository) bool {
		return r.Name == name
	})
	if !ok {
		return false, nil
	}

	rec := list[i]

	if req.Name != nil {
		rec.Name = *req.Name
	}

	if req.Description != nil {
		rec.Description = model.StringPtr(*req.Description)
	}

	if req.Private != nil {
		rec.Private = *req.Private
	}

	list[i] = rec

	return true, s.Save(list)
}

// Replace swaps the first record named name for rec and drops any other
// record already named rec.Name. It reports false, and writes nothing, when
// no record is named name.
func (s *Store) Replace(name string, rec model.Repository) (bool, error) {
	list := s.Load()

	_, i, ok := lo.FindIndexOf(list, func(r model.Repository) bool {
		return r.Name == name
	})
	if !ok {
		return false, nil
	}

	out := make([]model.Repository, 0, len(list))
	for j, r := range list {
		switch {
		case j == i:
			out = append(out, rec)
		case r.Name != rec.Name:
			out = append(out, r)
		}
	}

	return true, s.Save(out)
}

// Remove deletes every record named name. It reports false, and writes
// nothing, when none exists.
func (s *Store) Remove(name string) (bool, error) {
	list := s.Load()

	kept := lo.Reject(list, func(r model.Repository, _ int) bool {
		return r.Name == name
	})
	if len(kept) == len(list) {
		return false, nil
	}

	return true, s.Save(kept)
}

// Prune removes records whose names appear in remote and returns how many
// were removed.
func (s *Store) Prune(remote []model.Repository) (int, error) {
	list := s.Load()
	names := nameSet(remote)

	kept := lo.Reject(list, func(r model.Repository, _ int) bool {
		_, ok := names[r.Name]
		return ok
	})

	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}

	return removed, s.Save(kept)
}

// Merge returns saved followed by the remote records whose names are not in
// saved. Saved entries keep their order and win on a name collision.
func Merge(saved, remote []model.Repository) []model.Repository {
	seen := nameSet(saved)

	out := make([]model.Repository, 0, len(saved)+len(remote))
	out = append(out, saved...)
	out = append(out, lo.Filter(remote, func(r model.Repository, _ int) bool {
		_, dup := seen[r.Name]
		return !dup
	})...)

	return out
}

func nameSet(list []model.Repository) map[string]struct{} {
	return lo.Associate(list, func(r model.Repository) (string, struct{}) {
		return r.Name, struct{}{}
	})
}
