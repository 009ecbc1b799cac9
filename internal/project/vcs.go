package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// VCS identifies the version control system a project lives in.
type VCS string

const (
	VCSNone     VCS = ""
	VCSGit      VCS = "git"
	VCSJJ       VCS = "jj"
	VCSColocate VCS = "colocate"
)

// Repo describes the repository enclosing a project.
type Repo struct {
	// Type is the detected VCS.
	Type VCS

	// Root is the repository root.
	Root string
}

// DetectRepo walks up from start looking for .jj and .git. A .git file
// (a git worktree) counts as git. It returns a zero Repo outside any
// repository.
func DetectRepo(start string) (Repo, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return Repo{}, err
	}

	for {
		hasJJ := isDir(filepath.Join(dir, ".jj"))
		_, gitErr := os.Stat(filepath.Join(dir, ".git"))
		hasGit := gitErr == nil

		switch {
		case hasJJ && hasGit:
			return Repo{Type: VCSColocate, Root: dir}, nil
		case hasJJ:
			return Repo{Type: VCSJJ, Root: dir}, nil
		case hasGit:
			return Repo{Type: VCSGit, Root: dir}, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Repo{}, nil
		}
		dir = parent
	}
}

// localState lists the state files that belong to one user's session and
// stay out of version control. The registry and config are shared.
var localState = []string{
	"session.toml",
	"history.db*",
	"*.log",
	"*.log.*",
}

// IgnoreLocalState writes a .gitignore into the state directory so that
// per-user files are not committed. Both git and jj honour it. An existing
// file is left alone; the return value reports whether one was written.
func IgnoreLocalState(projectDir string) (bool, error) {
	path := filepath.Join(StateDir(projectDir), ".gitignore")
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	content := "# Local scenenav state\n" + strings.Join(localState, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
