package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.False(t, cfg.Drafts.AutoPrune)
}

func TestLoad_SearchDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
api:
  base_url: https://ghe.example.com/api/v3
  timeout: 30s
storage:
  driver: SQLite
  path: /tmp/repodeck.db
drafts:
  auto_prune: true
log:
  level: debug
  format: json
`)

	cfg, err := Load("", dir)
	require.NoError(t, err)

	assert.Equal(t, "https://ghe.example.com/api/v3", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/repodeck.db", cfg.Storage.Path)
	assert.True(t, cfg.Drafts.AutoPrune)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "auth:\n  token: from-file\n")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.Token)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("REPODECK_AUTH_TOKEN", "from-env")
	t.Setenv("REPODECK_AUTH_USE_GH_CLI", "true")
	t.Setenv("REPODECK_API_TIMEOUT", "5s")

	dir := t.TempDir()
	writeConfig(t, dir, "auth:\n  token: from-file\n")

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Token)
	assert.True(t, cfg.Auth.UseGHCLI)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "driver",
			content: "storage:\n  driver: redis\n",
			wantErr: "field 'storage.driver' must be one of: bolt sqlite",
		},
		{
			name:    "base url",
			content: "api:\n  base_url: not a url\n",
			wantErr: "field 'api.base_url' must be a valid URL",
		},
		{
			name:    "timeout",
			content: "api:\n  timeout: 0s\n",
			wantErr: "field 'api.timeout' must be greater than 0",
		},
		{
			name:    "log level",
			content: "log:\n  level: verbose\n",
			wantErr: "field 'log.level' must be one of: debug info warn error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := Load("", dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_AfterOverride(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.API.BaseURL = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'api.base_url' is required")
}
