// Package ghapitest provides an in-memory fake of the repository endpoints of
// the remote API for tests.
package ghapitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gorilla/mux"
)

// Owner is a repository owner as serialized by the API.
type Owner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// Repo is a repository as serialized by the API.
type Repo struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	Language        *string `json:"language"`
	StargazersCount int     `json:"stargazers_count"`
	Private         bool    `json:"private"`
	Owner           Owner   `json:"owner"`
}

// User is the authenticated user as serialized by the API.
type User struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Bio         *string `json:"bio"`
	AvatarURL   string  `json:"avatar_url"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
	PublicRepos int     `json:"public_repos"`
	Location    *string `json:"location"`
}

// Request is a request received by the server.
type Request struct {
	Method        string
	Path          string
	Route         string
	Authorization string
	Body          map[string]any
}

type override struct {
	status int
	body   string
}

// Server is a fake API. Routes are named "METHOD /template", for example
// "POST /user/repos" or "PATCH /repos/{owner}/{name}".
type Server struct {
	*httptest.Server

	// Token, when set, is required as "Authorization: token <Token>"
	Token string

	mu        sync.Mutex
	user      User
	repos     []Repo
	overrides map[string]override
	requests  []Request
}

// NewServer starts a fake API for user. Close it when done.
func NewServer(login string) *Server {
	s := &Server{
		user: User{
			Login:     login,
			AvatarURL: "https://avatars.example.com/" + login,
		},
		overrides: make(map[string]override),
	}

	r := mux.NewRouter()
	r.HandleFunc("/user", s.getUser).Methods(http.MethodGet).Name("GET /user")
	r.HandleFunc("/user/repos", s.listRepos).Methods(http.MethodGet).Name("GET /user/repos")
	r.HandleFunc("/user/repos", s.createRepo).Methods(http.MethodPost).Name("POST /user/repos")
	r.HandleFunc("/repos/{owner}/{name}", s.editRepo).Methods(http.MethodPatch).Name("PATCH /repos/{owner}/{name}")
	r.HandleFunc("/repos/{owner}/{name}", s.deleteRepo).Methods(http.MethodDelete).Name("DELETE /repos/{owner}/{name}")
	r.Use(s.middleware)

	s.Server = httptest.NewServer(r)

	return s
}

// SetUser replaces the profile returned by GET /user.
func (s *Server) SetUser(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = u
}

// AddRepo adds a repository owned by the server's user at the front of the
// listing.
func (s *Server) AddRepo(r Repo) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Owner.Login == "" {
		r.Owner = Owner{Login: s.user.Login, AvatarURL: s.user.AvatarURL}
	}

	s.repos = append([]Repo{r}, s.repos...)
}

// Fail makes route answer with status and a raw body until cleared with
// status 0.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == 0 {
		delete(s.overrides, route)
		return
	}

	s.overrides[route] = override{status: status, body: body}
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Request(nil), s.requests...)
}

// Count returns how many requests hit route.
func (s *Server) Count(route string) int {
	n := 0

	for _, r := range s.Requests() {
		if r.Route == route {
			n++
		}
	}

	return n
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := ""
		if cur := mux.CurrentRoute(r); cur != nil {
			route = cur.GetName()
		}

		var body map[string]any
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Route:         route,
			Authorization: r.Header.Get("Authorization"),
			Body:          body,
		})
		ov, failing := s.overrides[route]
		token := s.Token
		s.mu.Unlock()

		if failing {
			writeRaw(w, ov.status, ov.body)
			return
		}

		if token != "" && r.Header.Get("Authorization") != "token "+token {
			writeRaw(w, http.StatusUnauthorized, `{"message":"Bad credentials"}`)
			return
		}

		ctx := withBody(r.Context(), body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) getUser(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	u := s.user
	u.PublicRepos = len(s.repos)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, u)
}

func (s *Server) listRepos(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	list := append([]Repo{}, s.repos...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) createRepo(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())

	name, _ := body["name"].(string)
	if name == "" {
		writeRaw(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed","errors":[{"resource":"Repository","code":"missing_field","field":"name"}]}`)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(s.user.Login, name) >= 0 {
		writeRaw(w, http.StatusUnprocessableEntity, `{"message":"Repository creation failed.","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`)
		return
	}

	repo := Repo{
		Name:    name,
		Owner:   Owner{Login: s.user.Login, AvatarURL: s.user.AvatarURL},
		Private: body["private"] == true,
	}

	if d, ok := body["description"].(string); ok {
		repo.Description = &d
	}

	s.repos = append([]Repo{repo}, s.repos...)

	writeJSON(w, http.StatusCreated, repo)
}

func (s *Server) editRepo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	body := bodyFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(vars["owner"], vars["name"])
	if i < 0 {
		writeRaw(w, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	repo := s.repos[i]

	if n, ok := body["name"].(string); ok {
		if n != repo.Name && s.indexOf(vars["owner"], n) >= 0 {
			writeRaw(w, http.StatusUnprocessableEntity, `{"message":"Validation Failed","errors":[{"resource":"Repository","code":"custom","field":"name","message":"name already exists on this account"}]}`)
			return
		}

		repo.Name = n
	}

	if d, ok := body["description"].(string); ok {
		repo.Description = &d
	}

	if p, ok := body["private"].(bool); ok {
		repo.Private = p
	}

	s.repos[i] = repo

	writeJSON(w, http.StatusOK, repo)
}

func (s *Server) deleteRepo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(vars["owner"], vars["name"])
	if i < 0 {
		writeRaw(w, http.StatusNotFound, `{"message":"Not Found"}`)
		return
	}

	s.repos = append(s.repos[:i], s.repos[i+1:]...)

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) indexOf(owner, name string) int {
	for i, r := range s.repos {
		if r.Owner.Login == owner && r.Name == name {
			return i
		}
	}

	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		writeRaw(w, http.StatusInternalServerError, fmt.Sprintf(`{"message":%q}`, err.Error()))
		return
	}

	writeRaw(w, status, string(data))
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
