package util

import "github.com/videocatcher/videocatcher/filesystem"

// Delete removes a file or a whole directory. A missing path is an error.
func Delete(path string) error {
	fs := filesystem.API()
	if _, err := fs.Stat(path); err != nil {
		return err
	}
	return fs.RemoveAll(path)
}

// Ignore runs f for its side effect, typically a deferred Close.
func Ignore(f func() error) {
	_ = f()
}
