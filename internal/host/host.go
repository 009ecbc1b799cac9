// Package host stands in for the editor that owns the open scene and the
// project selection.
//
// The bookmark workflows only need four capabilities from an editor: the
// name of the open scene, the selected scenes, saving the open scene and
// opening another. FileHost implements them on top of a small TOML session
// file so the command line tool can be driven end to end without an editor.
package host

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/natefinch/atomic"

	"github.com/pencils57/scenenav/internal/navigate"
)

// Session is the state FileHost keeps on disk.
type Session struct {
	// Active is the path of the open scene.
	Active string `toml:"active"`

	// Selected holds the selected project items as given, of any type.
	Selected []string `toml:"selected"`

	// SavedAt is when the active scene was last saved.
	SavedAt *time.Time `toml:"saved_at,omitempty"`

	// Saves counts SaveActiveResource calls.
	Saves int `toml:"saves"`
}

// FileHost is an editor stand-in backed by a session file.
type FileHost struct {
	path string
	ext  string
	now  func() time.Time
}

var _ navigate.Host = (*FileHost)(nil)

// NewFileHost returns a FileHost storing its session at path. ext is the
// scene extension including the leading dot.
func NewFileHost(path, ext string) *FileHost {
	return &FileHost{
		path: path,
		ext:  ext,
		now:  time.Now,
	}
}

// Session reads the session file. A missing file yields an empty session.
func (h *FileHost) Session() (*Session, error) {
	var s Session
	if _, err := toml.DecodeFile(h.path, &s); err != nil {
		if os.IsNotExist(err) {
			return &Session{}, nil
		}
		return nil, fmt.Errorf("failed to read session %s: %w", h.path, err)
	}
	return &s, nil
}

// ActiveResourceName returns the name of the open scene, or "" if none.
func (h *FileHost) ActiveResourceName() (string, error) {
	s, err := h.Session()
	if err != nil {
		return "", err
	}
	if s.Active == "" {
		return "", nil
	}
	base := filepath.Base(s.Active)
	return strings.TrimSuffix(base, filepath.Ext(base)), nil
}

// SelectedResourceNames returns the selected scene names. Only entries carrying the scene
// extension are returned, without the extension and without repeats.
func (h *FileHost) SelectedResourceNames() ([]string, error) {
	s, err := h.Session()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var names []string
	for _, item := range s.Selected {
		if filepath.Ext(item) != h.ext {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(item), h.ext)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}

// SaveActiveResource persists the open scene. It stamps the session; without an
// open scene there is nothing to save.
func (h *FileHost) SaveActiveResource() error {
	return h.update(func(s *Session) {
		if s.Active == "" {
			return
		}
		now := h.now().UTC()
		s.SavedAt = &now
		s.Saves++
	})
}

// OpenResource makes the scene at path the open one.
func (h *FileHost) OpenResource(path string) error {
	return h.update(func(s *Session) {
		s.Active = path
	})
}

// Select replaces the selection. Items may be of any type.
func (h *FileHost) Select(items []string) error {
	return h.update(func(s *Session) {
		s.Selected = append([]string(nil), items...)
	})
}

func (h *FileHost) update(fn func(s *Session)) error {
	s, err := h.Session()
	if err != nil {
		return err
	}
	fn(s)

	if err := os.MkdirAll(filepath.Dir(h.path), 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := atomic.WriteFile(h.path, &buf); err != nil {
		return fmt.Errorf("failed to write session %s: %w", h.path, err)
	}
	return nil
}
