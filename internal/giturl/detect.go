package giturl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultRemote is the remote consulted by Detect.
const DefaultRemote = "origin"

// ErrNotRepository is returned by Detect outside a git working copy.
var ErrNotRepository = errors.New("not a git repository")

// Detect finds the working copy containing dir and returns the repository its
// remote points at. An empty remote means DefaultRemote.
func Detect(dir, remote string) (Ref, error) {
	if remote == "" {
		remote = DefaultRemote
	}

	gitDir, err := findGitDir(dir)
	if err != nil {
		return Ref{}, err
	}

	rawURL, err := remoteURL(filepath.Join(gitDir, "config"), remote)
	if err != nil {
		return Ref{}, err
	}

	return refFromRemote(rawURL)
}

// remoteURL reads the url of [remote "<name>"] from a git config file.
func remoteURL(configFile, name string) (string, error) {
	cfg, err := ini.Load(configFile)
	if err != nil {
		return "", fmt.Errorf("failed to read git config: %w", err)
	}

	sec, err := cfg.GetSection(fmt.Sprintf("remote %q", name))
	if err != nil {
		return "", fmt.Errorf("no %s remote found in git config", name)
	}

	u := strings.TrimSpace(sec.Key("url").String())
	if u == "" {
		return "", fmt.Errorf("remote %s has no url", name)
	}

	return u, nil
}

// findGitDir walks up from dir to the first directory holding .git. A .git
// file ("gitdir: <path>", used by worktrees and submodules) is followed.
func findGitDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(abs, ".git")

		info, err := os.Stat(candidate)
		if err == nil {
			if info.IsDir() {
				return candidate, nil
			}

			return readGitFile(candidate)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrNotRepository
		}

		abs = parent
	}
}

func readGitFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", fmt.Errorf("%w: malformed %s", ErrNotRepository, path)
	}

	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}

	// linked worktrees keep their remotes in the main repository's config
	if common, err := os.ReadFile(filepath.Join(target, "commondir")); err == nil {
		c := strings.TrimSpace(string(common))
		if !filepath.IsAbs(c) {
			c = filepath.Join(target, c)
		}

		return filepath.Clean(c), nil
	}

	return target, nil
}
