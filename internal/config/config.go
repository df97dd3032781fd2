// Package config loads repodeck settings from an optional YAML file and
// REPODECK_* environment variables using viper, then validates them.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load, e.g.
// REPODECK_API_BASE_URL.
const EnvPrefix = "REPODECK"

// TokenEnv is the environment-level token override. It takes precedence over
// every other token source.
const TokenEnv = "GITHUB_API_TOKEN"

// Defaults.
const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultTimeout   = 10 * time.Second
	DefaultDriver    = "bolt"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Config is the full configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	Drafts  DraftsConfig  `mapstructure:"drafts"`
	Log     LogConfig     `mapstructure:"log"`
}

// APIConfig configures the remote API client.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// AuthConfig configures token sources besides the credential store.
type AuthConfig struct {
	// Token is used when GITHUB_API_TOKEN is unset, ahead of stored
	// credentials
	Token string `mapstructure:"token"`

	// UseGHCLI falls back to the gh CLI token when nothing else is set
	UseGHCLI bool `mapstructure:"use_gh_cli"`
}

// StorageConfig selects the local key-value backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=bolt sqlite"`

	// Path is the database file. Empty means the default file in the
	// application directory.
	Path string `mapstructure:"path"`
}

// DraftsConfig controls the local draft list.
type DraftsConfig struct {
	// AutoPrune drops drafts once the remote listing contains them
	AutoPrune bool `mapstructure:"auto_prune"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		API:     APIConfig{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
		Storage: StorageConfig{Driver: DefaultDriver},
		Log:     LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Load reads configPath when given, otherwise an optional config.yaml in
// searchDir, applies REPODECK_* environment variables and validates the
// result. A missing file is only an error when configPath is explicit.
func Load(configPath, searchDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		if searchDir != "" {
			v.AddConfigPath(searchDir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := newValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %s", FormatValidationError(err))
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.timeout", d.API.Timeout)
	v.SetDefault("auth.token", "")
	v.SetDefault("auth.use_gh_cli", false)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.path", "")
	v.SetDefault("drafts.auto_prune", false)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}

		return name
	})

	return validate
}

// FormatValidationError turns validator errors into one readable line.
func FormatValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatFieldError(e))
	}

	return strings.Join(messages, "; ")
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("field '%s' is required", field)
	case "url":
		return fmt.Sprintf("field '%s' must be a valid URL", field)
	case "oneof":
		return fmt.Sprintf("field '%s' must be one of: %s", field, e.Param())
	case "gt":
		return fmt.Sprintf("field '%s' must be greater than %s", field, e.Param())
	default:
		return fmt.Sprintf("field '%s' failed on '%s'", field, e.Tag())
	}
}
