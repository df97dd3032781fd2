package giturl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		owner   string
		want    Ref
		wantErr bool
	}{
		{name: "bare name with owner", arg: "demo", owner: "alice", want: Ref{Host: "github.com", Owner: "alice", Name: "demo"}},
		{name: "bare name without owner", arg: "demo", want: Ref{Host: "github.com", Name: "demo"}},
		{name: "owner/name", arg: "bob/tool", owner: "alice", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "host/owner/name", arg: "GHE.example.com/team/svc", want: Ref{Host: "ghe.example.com", Owner: "team", Name: "svc"}},
		{name: "https url", arg: "https://github.com/bob/tool", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "browser deep link", arg: "https://www.github.com/bob/tool/blob/main/x.go#L3", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "scp-like", arg: "git@github.com:bob/tool.git", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "ssh url with port", arg: "ssh://git@github.com:22/bob/tool.git", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "git+https", arg: "git+https://github.com/bob/tool.git", want: Ref{Host: "github.com", Owner: "bob", Name: "tool"}},
		{name: "empty", arg: "  ", wantErr: true},
		{name: "empty owner", arg: "/tool", wantErr: true},
		{name: "too many segments", arg: "a/b/c/d", wantErr: true},
		{name: "url without repo", arg: "https://github.com/bob", wantErr: true},
		{name: "unsupported scheme", arg: "ftp://github.com/bob/tool", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.arg, tt.owner)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "alice/demo", Ref{Owner: "alice", Name: "demo"}.String())
	assert.Equal(t, "demo", Ref{Name: "demo"}.String())
	assert.True(t, Ref{Owner: "alice", Name: "demo"}.Qualified())
	assert.False(t, Ref{Name: "demo"}.Qualified())
}

func TestParseRemote_SCP(t *testing.T) {
	u, err := ParseRemote("git@github.com:bob/tool.git")
	require.NoError(t, err)
	assert.Equal(t, "ssh", u.Scheme)
	assert.Equal(t, "git", u.User.Username())
	assert.Equal(t, "github.com", u.Host)
	assert.Equal(t, "/bob/tool.git", u.Path)
}

const gitConfig = `[core]
	repositoryformatversion = 0
	bare = false
[remote "origin"]
	url = git@github.com:alice/demo-repo.git
	fetch = +refs/heads/*:refs/remotes/origin/*
[remote "upstream"]
	url = https://github.com/upstream-org/demo-repo
	fetch = +refs/heads/*:refs/remotes/upstream/*
[branch "main"]
	remote = origin
	merge = refs/heads/main
`

func writeRepo(t *testing.T, root, config string) {
	t.Helper()

	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte(config), 0o644))
}

func TestDetect(t *testing.T) {
	root := t.TempDir()
	writeRepo(t, root, gitConfig)

	nested := filepath.Join(root, "pkg", "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	got, err := Detect(nested, "")
	require.NoError(t, err)
	assert.Equal(t, Ref{Host: "github.com", Owner: "alice", Name: "demo-repo"}, got)

	got, err = Detect(root, "upstream")
	require.NoError(t, err)
	assert.Equal(t, "upstream-org/demo-repo", got.String())
}

func TestDetect_Worktree(t *testing.T) {
	mainRepo := t.TempDir()
	writeRepo(t, mainRepo, gitConfig)

	wtGitDir := filepath.Join(mainRepo, ".git", "worktrees", "feature")
	require.NoError(t, os.MkdirAll(wtGitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(wtGitDir, "commondir"), []byte("../..\n"), 0o644))

	wt := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(wt, ".git"), []byte("gitdir: "+wtGitDir+"\n"), 0o644))

	got, err := Detect(wt, "")
	require.NoError(t, err)
	assert.Equal(t, "alice/demo-repo", got.String())
}

func TestDetect_Errors(t *testing.T) {
	t.Run("missing remote", func(t *testing.T) {
		root := t.TempDir()
		writeRepo(t, root, "[core]\n\tbare = false\n")

		_, err := Detect(root, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no origin remote")
	})

	t.Run("remote without url", func(t *testing.T) {
		root := t.TempDir()
		writeRepo(t, root, "[remote \"origin\"]\n\tfetch = +refs/heads/*:refs/remotes/origin/*\n")

		_, err := Detect(root, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has no url")
	})
}
