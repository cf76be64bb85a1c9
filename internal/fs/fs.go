package fs

import (
	"io"
	"os"
)

// File is an open file as the container save path sees it.
type File interface {
	io.ReadWriteCloser
	Sync() error
}

// FileSystem abstracts the handful of filesystem operations the
// atomic save and load paths perform, so tests can inject failures.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// LocalFS implements FileSystem using the local os package.
type LocalFS struct{}

func (LocalFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(name, flag, perm)
}

func (LocalFS) Remove(name string) error             { return os.Remove(name) }
func (LocalFS) Rename(oldpath, newpath string) error { return os.Rename(oldpath, newpath) }

// Default is the default local file system.
var Default FileSystem = LocalFS{}
