// Package navigate switches the host editor to a bookmarked scene and
// prunes bookmarks whose files have disappeared.
package navigate

import (
	"fmt"
	"io"
	"log"

	"github.com/pencils57/scenenav/internal/registry"
)

// Host is the part of the editor the navigator drives.
type Host interface {
	// ActiveResourceName returns the name of the scene currently open.
	ActiveResourceName() (string, error)

	// SaveActiveResource persists the scene currently open.
	SaveActiveResource() error

	// OpenResource makes the scene at path the active one.
	OpenResource(path string) error
}

// FileChecker reports whether a bookmarked path still exists.
type FileChecker interface {
	Exists(path string) bool
}

// Navigator opens bookmarks by position.
type Navigator struct {
	store  *registry.Store
	host   Host
	files  FileChecker
	logger *log.Logger
}

// New creates a Navigator. A nil logger discards output.
func New(store *registry.Store, host Host, files FileChecker, logger *log.Logger) *Navigator {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Navigator{
		store:  store,
		host:   host,
		files:  files,
		logger: logger,
	}
}

// Open switches to the bookmark at index.
//
// If the bookmark names the scene already active nothing happens.
// Otherwise the active scene is saved first, then the bookmarked path is
// checked: an existing file is opened, a missing one is treated as stale
// and its bookmark is removed. Stale bookmarks are never re-resolved; the
// user registers the scene again. The registry is saved on every path.
//
// index must be valid; anything else fails with registry.ErrIndexOutOfRange.
// Host failures are returned as errors and leave the registry unchanged.
func (n *Navigator) Open(index int) (registry.Diagnostic, error) {
	b, err := n.store.At(index)
	if err != nil {
		return registry.Diagnostic{}, err
	}

	active, err := n.host.ActiveResourceName()
	if err != nil {
		return registry.Diagnostic{}, fmt.Errorf("failed to read active scene: %w", err)
	}

	diag := registry.Diagnostic{Name: b.Name, Path: b.Path}

	switch {
	case active == b.Name:
		n.logger.Printf("Scene %s is already open", b.Name)
		diag.Outcome = registry.OutcomeAlreadyOpen

	default:
		if err := n.host.SaveActiveResource(); err != nil {
			return registry.Diagnostic{}, fmt.Errorf("failed to save active scene %s: %w", active, err)
		}

		if n.files.Exists(b.Path) {
			if err := n.host.OpenResource(b.Path); err != nil {
				return registry.Diagnostic{}, fmt.Errorf("failed to open %s: %w", b.Path, err)
			}
			n.logger.Printf("Opened scene %s", b)
			diag.Outcome = registry.OutcomeOpened
		} else {
			if _, err := n.store.RemoveAt(index); err != nil {
				return registry.Diagnostic{}, err
			}
			n.logger.Printf("Scene %s has moved or been deleted, bookmark removed", b)
			diag.Outcome = registry.OutcomePruned
			diag.Message = fmt.Sprintf("%s has moved or been deleted; register it again", b.Name)
		}
	}

	if err := n.store.Save(); err != nil {
		return registry.Diagnostic{}, err
	}
	return diag, nil
}
