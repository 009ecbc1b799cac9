// Package project locates the .scenenav directory that marks a project.
package project

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the per-project state directory.
const DirName = ".scenenav"

// FindDir walks up from start looking for a DirName directory and returns
// the project directory containing it, or "" when there is none.
func FindDir(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return ""
	}

	for {
		info, err := os.Stat(filepath.Join(dir, DirName))
		if err == nil && info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// StateDir returns the DirName directory of projectDir.
func StateDir(projectDir string) string {
	return filepath.Join(projectDir, DirName)
}

// Init creates the state directory under projectDir. It is idempotent and
// reports whether the directory was created.
func Init(projectDir string) (bool, error) {
	dir := StateDir(projectDir)
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("%s exists and is not a directory", dir)
		}
		return false, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return true, nil
}
