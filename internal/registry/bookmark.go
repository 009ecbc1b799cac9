// Package registry owns the ordered list of scene bookmarks and its
// persisted JSON document.
//
// The document lives at a fixed path (by default .scenenav/bookmarks.json)
// and has the shape:
//
//	{
//	  "bookmarks": [
//	    {"name": "Lobby", "path": "Assets/Scenes/Lobby.unity"}
//	  ]
//	}
//
// Order is significant: it is the display order and bookmarks are removed
// by position. Name uniqueness is not enforced here; the reconcile package
// checks for duplicates before calling Add.
package registry

import "fmt"

// Bookmark is a cached reference to a scene file.
type Bookmark struct {
	// Name is the scene's file name without extension.
	Name string `json:"name"`

	// Path is where the scene was found when it was last resolved.
	Path string `json:"path"`
}

// Validate reports whether the bookmark can be persisted.
func (b Bookmark) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if b.Path == "" {
		return fmt.Errorf("path is required for %q", b.Name)
	}
	return nil
}

// String returns "name (path)".
func (b Bookmark) String() string {
	return fmt.Sprintf("%s (%s)", b.Name, b.Path)
}

// Document is the persisted form of the registry.
type Document struct {
	Bookmarks []Bookmark `json:"bookmarks"`
}

// Validate checks every entry of the document.
func (d *Document) Validate() error {
	for i, b := range d.Bookmarks {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("bookmark %d: %w", i, err)
		}
	}
	return nil
}
