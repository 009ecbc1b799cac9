package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// Store is the in-memory registry for one session together with the path
// of its persisted document. Every mutating workflow ends with Save, so the
// document always reflects the latest mutation.
//
// Store is not safe for concurrent use.
type Store struct {
	path   string
	doc    Document
	logger *log.Logger
}

// NewStore returns an empty store bound to the document at path.
// Call Load before using it. A nil logger discards output.
func NewStore(path string, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		path:   path,
		doc:    Document{Bookmarks: []Bookmark{}},
		logger: logger,
	}
}

// Path returns the location of the persisted document.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the in-memory registry with the persisted document.
//
// A missing document is not an error: the registry starts empty and the
// empty document is written immediately, so one always exists after the
// first session. A document that exists but cannot be decoded fails with
// ErrMalformedDocument and leaves the in-memory registry untouched.
func (s *Store) Load() error {
	doc, err := ReadDocument(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Printf("No bookmark document at %s, creating one", s.path)
			s.doc = Document{Bookmarks: []Bookmark{}}
			return s.Save()
		}
		return err
	}

	s.doc = *doc
	return nil
}

// Save overwrites the persisted document with the in-memory registry.
// The containing directory is created when missing and the write is
// atomic, so readers never observe a half-written document.
func (s *Store) Save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	if s.doc.Bookmarks == nil {
		s.doc.Bookmarks = []Bookmark{}
	}

	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write bookmark document %s: %w", s.path, err)
	}

	return nil
}

// Add appends b to the end of the registry. No duplicate check is made.
func (s *Store) Add(b Bookmark) {
	s.doc.Bookmarks = append(s.doc.Bookmarks, b)
}

// RemoveAt deletes the bookmark at index and returns it. The relative order
// of the remaining bookmarks is preserved.
func (s *Store) RemoveAt(index int) (Bookmark, error) {
	b, err := s.At(index)
	if err != nil {
		return Bookmark{}, err
	}
	s.doc.Bookmarks = append(s.doc.Bookmarks[:index], s.doc.Bookmarks[index+1:]...)
	return b, nil
}

// At returns the bookmark at index.
func (s *Store) At(index int) (Bookmark, error) {
	if index < 0 || index >= len(s.doc.Bookmarks) {
		return Bookmark{}, fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.doc.Bookmarks))
	}
	return s.doc.Bookmarks[index], nil
}

// List returns a copy of the bookmarks in display order. Positions are only
// meaningful until the next RemoveAt.
func (s *Store) List() []Bookmark {
	out := make([]Bookmark, len(s.doc.Bookmarks))
	copy(out, s.doc.Bookmarks)
	return out
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	return len(s.doc.Bookmarks)
}

// ReadDocument reads and validates the document at path without touching
// any Store. The error satisfies os.IsNotExist when the file is missing.
func ReadDocument(path string) (*Document, error) {
	// #nosec G304 - path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read bookmark document %s: %w", path, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedDocument, path, err)
	}
	if doc.Bookmarks == nil {
		doc.Bookmarks = []Bookmark{}
	}

	return &doc, nil
}
