// Package resolve turns a bare scene name into the path of the one scene
// file that carries it, by searching a directory tree.
package resolve

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no file in the tree carries the name.
	ErrNotFound = errors.New("scene not found")

	// ErrAmbiguous is returned when two or more files carry the name.
	ErrAmbiguous = errors.New("scene name is ambiguous")
)

// Error describes a failed resolution. It unwraps to ErrNotFound or
// ErrAmbiguous.
type Error struct {
	Name    string
	Matches []string
	Err     error
}

func (e *Error) Error() string {
	if len(e.Matches) > 1 {
		return fmt.Sprintf("%s: %q matches %d files", e.Err, e.Name, len(e.Matches))
	}
	return fmt.Sprintf("%s: %q", e.Err, e.Name)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsResolutionFailure reports whether err is an expected resolution miss
// (not found or ambiguous) as opposed to an I/O failure.
func IsResolutionFailure(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrAmbiguous)
}

// Resolver searches a root directory for scene files with a fixed extension.
// It has no side effects; results depend only on the tree at call time.
type Resolver struct {
	fs     afero.Fs
	root   string
	ext    string
	logger *log.Logger
}

// New creates a Resolver over fs rooted at root. ext may be given with or
// without the leading dot.
func New(fs afero.Fs, root, ext string, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Resolver{
		fs:     fs,
		root:   root,
		ext:    NormalizeExt(ext),
		logger: logger,
	}
}

// NormalizeExt returns ext with exactly one leading dot.
func NormalizeExt(ext string) string {
	return "." + strings.TrimLeft(ext, ".")
}

// Root returns the directory searched by Resolve.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns the path of the single scene file named name+Ext under
// Root. Zero matches fail with ErrNotFound and several with ErrAmbiguous;
// no arbitrary pick is ever made.
func (r *Resolver) Resolve(name string) (string, error) {
	matches, err := r.Search(name)
	if err != nil {
		return "", err
	}

	switch len(matches) {
	case 1:
		r.logger.Printf("Resolved %s -> %s", name, matches[0])
		return matches[0], nil
	case 0:
		r.logger.Printf("No scene named %s under %s", name, r.root)
		return "", &Error{Name: name, Err: ErrNotFound}
	default:
		r.logger.Printf("Scene name %s is ambiguous (%d files)", name, len(matches))
		return "", &Error{Name: name, Matches: matches, Err: ErrAmbiguous}
	}
}

// Search walks the whole tree and returns every path whose file name is
// name+Ext, sorted.
func (r *Resolver) Search(name string) ([]string, error) {
	target := name + r.ext

	var matches []string
	err := r.walk(func(path string, info os.FileInfo) {
		if info.Name() == target {
			matches = append(matches, path)
		}
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// Names returns the distinct scene names found under Root, sorted.
func (r *Resolver) Names() ([]string, error) {
	seen := make(map[string]bool)
	err := r.walk(func(path string, info os.FileInfo) {
		if filepath.Ext(info.Name()) == r.ext {
			seen[strings.TrimSuffix(info.Name(), r.ext)] = true
		}
	})
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Suggest returns up to limit scene names that fuzzily match name, closest
// first. It is used to hint at typos after a not-found resolution.
func (r *Resolver) Suggest(name string, limit int) ([]string, error) {
	names, err := r.Names()
	if err != nil {
		return nil, err
	}

	ranks := fuzzy.RankFindFold(name, names)
	sort.Sort(ranks)

	var out []string
	for _, rank := range ranks {
		if rank.Target == name {
			continue
		}
		out = append(out, rank.Target)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *Resolver) walk(visit func(path string, info os.FileInfo)) error {
	err := afero.Walk(r.fs, r.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			visit(path, info)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to search %s: %w", r.root, err)
	}
	return nil
}
