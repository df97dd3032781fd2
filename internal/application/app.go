package application

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/inovacc/repodeck/internal/auth"
	"github.com/inovacc/repodeck/internal/config"
	"github.com/inovacc/repodeck/internal/drafts"
	"github.com/inovacc/repodeck/internal/ghapi"
	"github.com/inovacc/repodeck/internal/model"
	"github.com/inovacc/repodeck/internal/repos"
	"github.com/inovacc/repodeck/internal/store"
)

// App holds the components built at process start. Tests build their own
// with New and a temporary storage path.
type App struct {
	Config      *config.Config
	Logger      *slog.Logger
	Store       store.KV
	Credentials *auth.CredentialStore
	Tokens      *auth.Resolver
	Client      *ghapi.Client
	Repos       *repos.Service
	Drafts      *drafts.Store
}

// New opens local storage and builds the API client and services described
// by cfg. A nil logger uses slog.Default(). Close the App when done.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if logger == nil {
		logger = slog.Default()
	}

	path := cfg.Storage.Path
	if path == "" {
		p, err := DefaultStoragePath(cfg.Storage.Driver)
		if err != nil {
			return nil, err
		}

		path = p
	}

	kv, err := store.Open(cfg.Storage.Driver, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	creds := auth.NewCredentialStore(kv)

	tokens := auth.NewResolver("GitHub").
		WithEnv(config.TokenEnv).
		WithValue("config:auth.token", cfg.Auth.Token).
		WithCredentials(creds)

	if cfg.Auth.UseGHCLI {
		tokens = tokens.WithGHCLI(WebHost(cfg.API.BaseURL))
	}

	tokens = tokens.WithHelpMessage(fmt.Sprintf("Run '%s login' or set %s.", AppName, config.TokenEnv))

	client, err := ghapi.New(ghapi.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Tokens:    tokens,
		UserAgent: AppName + "/" + Version,
		Logger:    logger,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		Store:       kv,
		Credentials: creds,
		Tokens:      tokens,
		Client:      client,
		Repos:       repos.New(client, repos.WithLogger(logger)),
		Drafts:      drafts.NewStore(kv, logger),
	}, nil
}

// Close releases local storage.
func (a *App) Close() error {
	return a.Store.Close()
}

// Host is the web host repositories are browsed on.
func (a *App) Host() string {
	return WebHost(a.Config.API.BaseURL)
}

// WebHost derives the browser host from an API base URL:
// https://api.github.com -> github.com, https://ghe.example.com/api/v3 ->
// ghe.example.com.
func WebHost(apiBaseURL string) string {
	u, err := url.Parse(apiBaseURL)
	if err != nil || u.Hostname() == "" {
		return model.DefaultHost
	}

	return strings.TrimPrefix(u.Hostname(), "api.")
}
