// Package repos implements the repository operations on top of the API
// client: listing, creating, editing and deleting the authenticated user's
// repositories, and fetching the user's profile.
//
// Every failure is returned as an [*Error] whose Kind lets callers branch
// (for example, sending the user back to login on [ErrAuth]). Nothing is
// retried.
package repos

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v82/github"
	"github.com/inovacc/repodeck/internal/ghapi"
	"github.com/inovacc/repodeck/internal/model"
)

// PageSize is the number of repositories requested by FetchRepositories.
const PageSize = 100

// Operation names carried in Error.Op.
const (
	OpFetch  = "fetch repositories"
	OpCreate = "create repository"
	OpEdit   = "edit repository"
	OpDelete = "delete repository"
	OpUser   = "get user"
)

const (
	msgNoToken      = "no GitHub token available; log in first"
	msgInvalidToken = "unauthorized (401): the token is invalid or expired; log in again"
	msgForbidden    = "access denied (403): possible rate limit or missing permissions"
	msgRateLimited  = "rate limit exceeded; try again later"
	msgInvalidName  = "invalid name %q: use only letters, digits, hyphens (-), underscores (_) or dots (.)"
)

// conflictPhrases identify a 422 caused by an existing repository name.
var conflictPhrases = []string{
	"name already exists",
	"name has already been taken",
	"already_exists",
	"name is already in use",
}

// API is the part of the API client the service needs.
type API interface {
	Repositories() *github.RepositoriesService
	Users() *github.UsersService
	HasToken() bool
}

// Service performs repository operations.
type Service struct {
	api    API
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger (default slog.Default()).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Service using api.
func New(api API, opts ...Option) *Service {
	s := &Service{api: api, logger: slog.Default()}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FetchRepositories lists up to PageSize repositories of the authenticated
// user, newest first. It fails with ErrAuth without sending a request when no
// token is available.
func (s *Service) FetchRepositories(ctx context.Context) ([]model.Repository, error) {
	if !s.api.HasToken() {
		return nil, newError(KindAuth, OpFetch, 0, nil, msgNoToken)
	}

	list, _, err := s.api.Repositories().ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: PageSize},
	})
	if err != nil {
		if e := classifyCommon(OpFetch, err); e != nil {
			return nil, e
		}

		apiErr := ghapi.Normalize(err)

		if apiErr.Status == http.StatusForbidden {
			return nil, forbidden(OpFetch, apiErr, msgForbidden)
		}

		return nil, newError(KindUnknown, OpFetch, apiErr.Status, err, "%s", firstNonEmpty(apiErr.Message, "failed to fetch repositories"))
	}

	out := make([]model.Repository, 0, len(list))
	for _, r := range list {
		if r == nil {
			continue
		}

		out = append(out, fromGitHub(r))
	}

	s.logger.Debug("fetched repositories", slog.Int("count", len(out)))

	return out, nil
}

// CreateRepository creates a repository on the authenticated account. The
// name is validated before any request is sent.
func (s *Service) CreateRepository(ctx context.Context, req model.CreateRequest) (*model.Repository, error) {
	if !ValidName(req.Name) {
		return nil, newError(KindValidation, OpCreate, 0, nil, msgInvalidName, req.Name)
	}

	private := false
	if req.Private != nil {
		private = *req.Private
	}

	created, _, err := s.api.Repositories().Create(ctx, "", &github.Repository{
		Name:        github.Ptr(req.Name),
		Description: req.Description,
		Private:     github.Ptr(private),
	})
	if err != nil {
		if e := classifyCommon(OpCreate, err); e != nil {
			return nil, e
		}

		apiErr := ghapi.Normalize(err)

		switch apiErr.Status {
		case http.StatusUnprocessableEntity:
			detail := firstNonEmpty(apiErr.Detail(), "validation failed (422)")

			if isNameConflict(detail) {
				e := newError(KindNameConflict, OpCreate, apiErr.Status, err,
					"the name %q already exists on your account; choose another name", req.Name)
				e.Suggestion = SuggestName(req.Name)

				return nil, e
			}

			return nil, newError(KindValidation, OpCreate, apiErr.Status, err, "%s", detail)
		case http.StatusForbidden:
			return nil, forbidden(OpCreate, apiErr, msgForbidden)
		}

		return nil, newError(KindUnknown, OpCreate, apiErr.Status, err, "%s", firstNonEmpty(apiErr.Message, "failed to create repository"))
	}

	rec := fromGitHub(created)
	s.logger.Info("repository created", slog.String("name", rec.Name))

	return &rec, nil
}

// EditRepository applies a partial update to owner/name. Only the fields set
// in req are sent.
func (s *Service) EditRepository(ctx context.Context, owner, name string, req model.EditRequest) (*model.Repository, error) {
	if owner == "" || name == "" {
		return nil, newError(KindValidation, OpEdit, 0, nil, "owner and repository name are required")
	}

	if req.IsEmpty() {
		return nil, newError(KindValidation, OpEdit, 0, nil, "nothing to update")
	}

	if req.Name != nil && !ValidName(*req.Name) {
		return nil, newError(KindValidation, OpEdit, 0, nil, msgInvalidName, *req.Name)
	}

	updated, _, err := s.api.Repositories().Edit(ctx, owner, name, &github.Repository{
		Name:        req.Name,
		Description: req.Description,
		Private:     req.Private,
	})
	if err != nil {
		if e := classifyCommon(OpEdit, err); e != nil {
			return nil, e
		}

		apiErr := ghapi.Normalize(err)
		full := owner + "/" + name

		switch apiErr.Status {
		case http.StatusNotFound:
			return nil, newError(KindNotFound, OpEdit, apiErr.Status, err,
				"repository %s not found (404): check the owner and name, and that your token has the 'repo' scope", full)
		case http.StatusForbidden:
			return nil, forbidden(OpEdit, apiErr,
				fmt.Sprintf("access denied (403) editing %s: check that your token has the 'repo' scope", full))
		case http.StatusUnprocessableEntity:
			return nil, newError(KindValidation, OpEdit, apiErr.Status, err, "%s",
				firstNonEmpty(apiErr.Detail(), "validation failed editing repository"))
		}

		return nil, newError(KindUnknown, OpEdit, apiErr.Status, err, "%s", firstNonEmpty(apiErr.Message, "failed to edit repository"))
	}

	rec := fromGitHub(updated)
	s.logger.Info("repository updated", slog.String("repo", owner+"/"+name))

	return &rec, nil
}

// DeleteRepository deletes owner/name. The remote answers 404 both when the
// repository does not exist and when the token may not delete it, so the
// NotFound message mentions both.
func (s *Service) DeleteRepository(ctx context.Context, owner, name string) error {
	if owner == "" || name == "" {
		return newError(KindValidation, OpDelete, 0, nil, "owner and repository name are required")
	}

	_, err := s.api.Repositories().Delete(ctx, owner, name)
	if err != nil {
		if e := classifyCommon(OpDelete, err); e != nil {
			return e
		}

		apiErr := ghapi.Normalize(err)
		full := owner + "/" + name

		switch apiErr.Status {
		case http.StatusNotFound:
			return newError(KindNotFound, OpDelete, apiErr.Status, err,
				"repository %s not found (404): check the name is correct and that your token has the 'repo' scope to delete it", full)
		case http.StatusForbidden:
			return forbidden(OpDelete, apiErr,
				fmt.Sprintf("access denied (403) deleting %s: check that your token has the 'repo' scope", full))
		}

		return newError(KindUnknown, OpDelete, apiErr.Status, err, "%s", firstNonEmpty(apiErr.Message, "failed to delete repository"))
	}

	s.logger.Info("repository deleted", slog.String("repo", owner+"/"+name))

	return nil
}

// GetUser fetches the authenticated user's profile.
func (s *Service) GetUser(ctx context.Context) (*model.UserProfile, error) {
	u, _, err := s.api.Users().Get(ctx, "")
	if err != nil {
		if e := classifyCommon(OpUser, err); e != nil {
			return nil, e
		}

		apiErr := ghapi.Normalize(err)

		if apiErr.Status == http.StatusForbidden {
			return nil, forbidden(OpUser, apiErr, msgForbidden)
		}

		return nil, newError(KindUnknown, OpUser, apiErr.Status, err, "%s", firstNonEmpty(apiErr.Message, "failed to get user"))
	}

	p := profileFromGitHub(u)

	return &p, nil
}

// GetUserInfo is GetUser that never fails: on error it logs a warning and
// returns model.UnknownProfile(). Callers must check IsUnknown.
func (s *Service) GetUserInfo(ctx context.Context) model.UserProfile {
	p, err := s.GetUser(ctx)
	if err != nil {
		s.logger.Warn("failed to get user info",
			slog.String("error", err.Error()),
		)

		return model.UnknownProfile()
	}

	return *p
}

// classifyCommon handles the outcomes shared by every operation: transport
// failures, undecodable bodies, 401 and rate limits of any status.
func classifyCommon(op string, err error) *Error {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) {
		return newError(KindFormat, op, 0, err, "unexpected response format: %v", err)
	}

	apiErr := ghapi.Normalize(err)

	switch {
	case apiErr.Transport:
		return newError(KindTransport, op, 0, err, "network error: %s", apiErr.Message)
	case apiErr.Status == http.StatusUnauthorized:
		return newError(KindAuth, op, apiErr.Status, err, msgInvalidToken)
	case apiErr.RateLimited:
		return forbidden(op, apiErr, msgRateLimited)
	}

	return nil
}

// forbidden maps a 403 or a rate-limited response to a rate limit or
// permission error carrying the server message when there is one.
func forbidden(op string, apiErr *ghapi.APIError, fallback string) *Error {
	kind := KindPermission
	if apiErr.RateLimited || strings.Contains(strings.ToLower(apiErr.Message), "rate limit") {
		kind = KindRateLimit
	}

	msg := fallback
	if apiErr.FromServer {
		msg = apiErr.Message
	}

	return newError(kind, op, apiErr.Status, apiErr.Err, "%s", msg)
}

func isNameConflict(detail string) bool {
	lowered := strings.ToLower(detail)

	for _, phrase := range conflictPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}

	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
