package templates

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is the filesystem collaborator used to resolve templates.
type FileSystem interface {
	// Exists reports whether path names a readable regular file.
	Exists(path string) bool
	// ReadFile returns the whole content of path.
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

// OS returns a FileSystem backed by the local disk.
func OS() FileSystem {
	return osFS{}
}

func (osFS) Exists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}

func (osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

type fsAdapter struct {
	fsys fs.FS
}

// FromFS adapts an fs.FS. Paths are slash-separated and a leading "/" or
// "./" is dropped, so search paths like "views" and "./views" are equivalent.
func FromFS(fsys fs.FS) FileSystem {
	return fsAdapter{fsys: fsys}
}

func (a fsAdapter) Exists(name string) bool {
	info, err := fs.Stat(a.fsys, a.clean(name))
	return err == nil && info.Mode().IsRegular()
}

func (a fsAdapter) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(a.fsys, a.clean(name))
}

func (a fsAdapter) clean(name string) string {
	return path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
}
