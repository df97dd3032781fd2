package cmd

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/inovacc/repodeck/internal/config"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"héllo wörld", 8, "héllo..."},
		{"abcdef", 2, "ab"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateString(tt.in, tt.maxLen), tt.in)
	}
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, "ab   ", padRight("ab", 5))
	assert.Equal(t, "abcdef", padRight("abcdef", 3))
}

func TestPrompter(t *testing.T) {
	var out bytes.Buffer
	p := newPrompter(strings.NewReader("alice\ny\nsecret"), &out)

	name, err := p.line("Username: ")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	assert.True(t, p.confirm("Sure? "))

	secret, err := p.secret("Token: ")
	require.NoError(t, err)
	assert.Equal(t, "secret", secret, "last line without newline is accepted")

	_, err = p.line("More: ")
	require.Error(t, err)
	assert.False(t, p.confirm("Again? "))

	assert.Equal(t, "Username: Sure? Token: More: Again? ", out.String())
}

func TestOptionalFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("description", "", "")
	fs.String("name", "", "")
	fs.Bool("private", false, "")

	require.NoError(t, fs.Parse([]string{"--description=", "--private=false"}))

	d := optionalString(fs, "description")
	require.NotNil(t, d)
	assert.Empty(t, *d)

	assert.Nil(t, optionalString(fs, "name"))

	p := optionalBool(fs, "private")
	require.NotNil(t, p)
	assert.False(t, *p)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"}, false, false)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	logger = newLogger(&buf, config.LogConfig{Level: "warn", Format: "text"}, true, true)
	logger.Debug("debug", slog.String("k", "v"))
	assert.Contains(t, buf.String(), `"msg":"debug"`)
}
