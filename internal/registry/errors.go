package registry

import "errors"

// Errors returned by Store. Both are fatal: callers surface them instead of
// recovering.
//
//	if errors.Is(err, registry.ErrMalformedDocument) {
//	    // the bookmarks file needs fixing by hand
//	}
var (
	// ErrMalformedDocument is returned by Load when the persisted document
	// exists but cannot be decoded or contains invalid entries.
	ErrMalformedDocument = errors.New("malformed bookmark document")

	// ErrIndexOutOfRange is returned when a caller addresses a bookmark
	// position that does not exist.
	ErrIndexOutOfRange = errors.New("bookmark index out of range")
)

// IsFatal returns true if err belongs to the fatal part of the error
// taxonomy: a corrupt document or a caller passing a bad index.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMalformedDocument) || errors.Is(err, ErrIndexOutOfRange)
}
