// Package reconcile adds scenes to the bookmark registry while keeping it
// free of duplicates and consistent with the scene files on disk.
//
// Two workflows exist and they deliberately differ in how they detect an
// existing registration:
//
//   - AddCurrent treats any bookmark whose name contains the active scene
//     name as a match and stops at the first one.
//   - AddBatch removes exact-name matches from the working set and then
//     resolves whatever remains.
//
// Both reload the persisted document before mutating it, so edits made to
// the file by hand since the session started are not lost.
package reconcile

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pencils57/scenenav/internal/registry"
	"github.com/pencils57/scenenav/internal/resolve"
)

// ErrEmptyName is returned by AddCurrent when the host has no active scene.
var ErrEmptyName = errors.New("no active scene name")

// Resolver maps a scene name to a single file path.
type Resolver interface {
	Resolve(name string) (string, error)
}

// Reconciler runs the add and remove workflows against a Store.
type Reconciler struct {
	store    *registry.Store
	resolver Resolver
	logger   *log.Logger
}

// New creates a Reconciler. A nil logger discards output.
func New(store *registry.Store, resolver Resolver, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reconciler{
		store:    store,
		resolver: resolver,
		logger:   logger,
	}
}

// AddCurrent registers the host's active scene.
//
// If any existing bookmark name contains name as a substring the scene is
// considered registered and nothing is added. Otherwise the name is
// resolved; a resolution miss adds nothing and is reported only through the
// returned diagnostic. The registry is saved in every case.
//
// The returned error is non-nil only for fatal conditions: a malformed
// document, an I/O failure, or an empty name.
func (r *Reconciler) AddCurrent(name string) ([]registry.Diagnostic, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if err := r.store.Load(); err != nil {
		return nil, err
	}

	var diag registry.Diagnostic
	if existing, ok := r.findContaining(name); ok {
		r.logger.Printf("Scene %s already registered as %s", name, existing.Name)
		diag = registry.Diagnostic{
			Name:    name,
			Path:    existing.Path,
			Outcome: registry.OutcomeAlreadyRegistered,
			Message: fmt.Sprintf("matches bookmark %q", existing.Name),
		}
	} else {
		var err error
		diag, err = r.resolveAndAdd(name)
		if err != nil {
			return nil, err
		}
	}

	if err := r.store.Save(); err != nil {
		return nil, err
	}
	return []registry.Diagnostic{diag}, nil
}

// AddBatch registers every scene in names that is not already bookmarked
// under exactly the same name. Duplicates within names collapse; the first
// occurrence fixes the order in which new bookmarks are appended. Each
// name is resolved independently and a miss on one does not stop the rest.
// The registry is saved once after the whole batch.
func (r *Reconciler) AddBatch(names []string) ([]registry.Diagnostic, error) {
	if err := r.store.Load(); err != nil {
		return nil, err
	}

	working := make(map[string]bool, len(names))
	var order []string
	for _, n := range names {
		if n == "" || working[n] {
			continue
		}
		working[n] = true
		order = append(order, n)
	}

	var diags []registry.Diagnostic
	for _, b := range r.store.List() {
		if !working[b.Name] {
			continue
		}
		delete(working, b.Name)
		r.logger.Printf("Scene %s is already saved", b.Name)
		diags = append(diags, registry.Diagnostic{
			Name:    b.Name,
			Path:    b.Path,
			Outcome: registry.OutcomeAlreadyRegistered,
		})
	}

	for _, n := range order {
		if !working[n] {
			continue
		}
		diag, err := r.resolveAndAdd(n)
		if err != nil {
			return nil, err
		}
		diags = append(diags, diag)
	}

	if err := r.store.Save(); err != nil {
		return nil, err
	}
	return diags, nil
}

// Remove deletes the bookmark at index from the registry as currently
// displayed and saves. An out-of-range index is a caller bug and fails with
// registry.ErrIndexOutOfRange.
func (r *Reconciler) Remove(index int) (registry.Diagnostic, error) {
	b, err := r.store.RemoveAt(index)
	if err != nil {
		return registry.Diagnostic{}, err
	}
	if err := r.store.Save(); err != nil {
		return registry.Diagnostic{}, err
	}

	r.logger.Printf("Removed bookmark %s", b)
	return registry.Diagnostic{
		Name:    b.Name,
		Path:    b.Path,
		Outcome: registry.OutcomeRemoved,
	}, nil
}

func (r *Reconciler) findContaining(name string) (registry.Bookmark, bool) {
	for _, b := range r.store.List() {
		if strings.Contains(b.Name, name) {
			return b, true
		}
	}
	return registry.Bookmark{}, false
}

// resolveAndAdd appends name when it resolves. Resolution misses become
// diagnostics; anything else is returned as an error.
func (r *Reconciler) resolveAndAdd(name string) (registry.Diagnostic, error) {
	path, err := r.resolver.Resolve(name)
	if err != nil {
		if !resolve.IsResolutionFailure(err) {
			return registry.Diagnostic{}, fmt.Errorf("failed to resolve %s: %w", name, err)
		}

		diag := registry.Diagnostic{
			Name:    name,
			Outcome: registry.OutcomeNotFound,
			Message: "no scene file with this name",
		}
		var rerr *resolve.Error
		if errors.Is(err, resolve.ErrAmbiguous) && errors.As(err, &rerr) {
			diag.Outcome = registry.OutcomeAmbiguous
			diag.Matches = rerr.Matches
			diag.Message = fmt.Sprintf("%d scene files share this name", len(rerr.Matches))
		}
		r.logger.Printf("Skipping %s: %s", name, diag.Message)
		return diag, nil
	}

	b := registry.Bookmark{Name: name, Path: path}
	r.store.Add(b)
	r.logger.Printf("Added scene %s", b)
	return registry.Diagnostic{
		Name:    name,
		Path:    path,
		Outcome: registry.OutcomeAdded,
	}, nil
}
