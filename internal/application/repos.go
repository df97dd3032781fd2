package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/inovacc/repodeck/internal/drafts"
	"github.com/inovacc/repodeck/internal/giturl"
	"github.com/inovacc/repodeck/internal/model"
	"github.com/inovacc/repodeck/internal/repos"
)

// ErrUnknownDraft is returned when an unqualified reference names no draft
// and no owner can be inferred.
var ErrUnknownDraft = errors.New("no local draft with that name")

// ListRepositories fetches the remote listing and merges the saved records
// in front of it. With drafts.auto_prune set, saved records confirmed by the
// listing are dropped first.
func (a *App) ListRepositories(ctx context.Context) ([]model.Repository, error) {
	remote, err := a.Repos.FetchRepositories(ctx)
	if err != nil {
		return nil, err
	}

	if a.Config.Drafts.AutoPrune {
		n, err := a.Drafts.Prune(remote)
		if err != nil {
			a.Logger.Warn("failed to prune drafts", slog.String("error", err.Error()))
		} else if n > 0 {
			a.Logger.Debug("pruned drafts", slog.Int("count", n))
		}
	}

	return drafts.Merge(a.Drafts.Load(), remote), nil
}

// CreateRepository creates the repository remotely and saves the returned
// record so it shows up in the next listing.
func (a *App) CreateRepository(ctx context.Context, req model.CreateRequest) (*model.Repository, error) {
	req.Name = strings.TrimSpace(req.Name)

	created, err := a.Repos.CreateRepository(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := a.Drafts.Add(*created); err != nil {
		a.Logger.Warn("failed to save created repository", slog.String("error", err.Error()))
	}

	return created, nil
}

// ResolveRef turns a command-line argument into a repository reference.
// An empty argument is detected from the git remote of the current
// directory. A bare name matching an unconfirmed draft stays unqualified, a
// bare name matching a saved remote record takes that record's owner, and
// any other bare name is qualified with the stored username.
func (a *App) ResolveRef(arg string) (giturl.Ref, error) {
	if strings.TrimSpace(arg) == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return giturl.Ref{}, fmt.Errorf("failed to get current directory: %w", err)
		}

		ref, err := giturl.Detect(cwd, "")
		if err != nil {
			return giturl.Ref{}, fmt.Errorf("no repository given and none detected: %w", err)
		}

		return ref, nil
	}

	ref, err := giturl.ParseRef(arg, "")
	if err != nil {
		return giturl.Ref{}, err
	}

	if ref.Qualified() {
		return ref, nil
	}

	if saved, ok := a.Drafts.Find(ref.Name); ok {
		if saved.IsDraft() {
			return ref, nil
		}

		ref.Owner = *saved.Owner

		return ref, nil
	}

	if username, ok := a.Credentials.Username(); ok {
		ref.Owner = username
		return ref, nil
	}

	return giturl.Ref{}, fmt.Errorf("%w: %q (use owner/name)", ErrUnknownDraft, ref.Name)
}

// EditRepository edits ref. A new name is trimmed first. An unqualified ref
// is a local draft and is updated in storage only. A remote edit replaces the
// saved copy with the server's record so it does not shadow the change.
func (a *App) EditRepository(ctx context.Context, ref giturl.Ref, req model.EditRequest) (*model.Repository, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}

	if !ref.Qualified() {
		return a.editDraft(ref.Name, req)
	}

	updated, err := a.Repos.EditRepository(ctx, ref.Owner, ref.Name, req)
	if err != nil {
		return nil, err
	}

	if saved, ok := a.Drafts.Find(ref.Name); ok && model.StringValue(saved.Owner) == ref.Owner {
		if _, err := a.Drafts.Replace(ref.Name, *updated); err != nil {
			a.Logger.Warn("failed to refresh saved repository", slog.String("error", err.Error()))
		}
	}

	return updated, nil
}

func (a *App) editDraft(name string, req model.EditRequest) (*model.Repository, error) {
	if req.IsEmpty() {
		return nil, draftError(repos.KindValidation, "nothing to update")
	}

	if req.Name != nil {
		newName := *req.Name

		if !repos.ValidName(newName) {
			return nil, draftError(repos.KindValidation, "invalid name %q: use only letters, digits, hyphens (-), underscores (_) or dots (.)", newName)
		}

		if _, taken := a.Drafts.Find(newName); taken && newName != name {
			e := draftError(repos.KindNameConflict, "a saved repository named %q already exists", newName)
			e.Suggestion = repos.SuggestName(newName)

			return nil, e
		}
	}

	ok, err := a.Drafts.Update(name, req)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDraft, name)
	}

	newName := name
	if req.Name != nil {
		newName = *req.Name
	}

	rec, _ := a.Drafts.Find(newName)

	return &rec, nil
}

// DeleteRepository deletes ref remotely and forgets any saved copy. An
// unqualified ref only removes the local draft.
func (a *App) DeleteRepository(ctx context.Context, ref giturl.Ref) error {
	if !ref.Qualified() {
		ok, err := a.Drafts.Remove(ref.Name)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDraft, ref.Name)
		}

		return nil
	}

	if err := a.Repos.DeleteRepository(ctx, ref.Owner, ref.Name); err != nil {
		return err
	}

	if _, err := a.Drafts.Remove(ref.Name); err != nil {
		a.Logger.Warn("failed to forget saved repository", slog.String("error", err.Error()))
	}

	return nil
}

// PruneDrafts fetches the remote listing and drops saved records it
// confirms.
func (a *App) PruneDrafts(ctx context.Context) (int, error) {
	remote, err := a.Repos.FetchRepositories(ctx)
	if err != nil {
		return 0, err
	}

	return a.Drafts.Prune(remote)
}

func draftError(kind repos.Kind, format string, args ...any) *repos.Error {
	return &repos.Error{Kind: kind, Op: repos.OpEdit, Message: fmt.Sprintf(format, args...)}
}
