package resolve

import (
	"path/filepath"

	"github.com/spf13/afero"
)

// Files checks whether bookmarked paths still name scene files. Bookmarks
// may hold project-relative or absolute paths: relative ones are taken
// from Dir, absolute ones are used as they are.
type Files struct {
	Fs  afero.Fs
	Dir string
}

// Exists reports whether path names an existing regular file.
func (f Files) Exists(path string) bool {
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.Dir, path)
	}
	info, err := f.Fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
