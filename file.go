package sparsecdf

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/hupe1980/sparsecdf/container"
	"github.com/hupe1980/sparsecdf/tensor"
)

// DefaultExt is appended to container file paths that carry no
// extension.
const DefaultExt = ".scdf"

func withDefaultExt(path string) string {
	if filepath.Ext(path) == "" {
		return path + DefaultExt
	}
	return path
}

// CreateFile starts a write session whose Close writes a new container
// file at path. Paths without an extension get DefaultExt appended.
// The file is written atomically on Close; nothing touches the disk
// before that.
func CreateFile(path string, optFns ...Option) (*Writer, error) {
	path = withDefaultExt(path)

	m := container.NewMemory()
	w, err := NewWriter(m, optFns...)
	if err != nil {
		return nil, err
	}

	w.logger = w.logger.WithPath(path)
	w.save = func() error { return m.SaveFile(path) }
	return w, nil
}

// OpenFile starts a read session on a container file. A bare path that
// does not exist is retried with DefaultExt appended.
func OpenFile(path string, optFns ...Option) (*Reader, error) {
	m, err := container.LoadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && filepath.Ext(path) == "" {
			m, err = container.LoadFile(path + DefaultExt)
		}
		if err != nil {
			return nil, err
		}
	}

	r, err := NewReader(m, optFns...)
	if err != nil {
		return nil, err
	}

	r.logger = r.logger.WithPath(path)
	return r, nil
}

// WriteFile writes t as the primary object of a new container file at
// path. A failed write leaves no file behind.
func WriteFile(path string, t *tensor.Tensor, optFns ...func(o *WriteOptions)) error {
	w, err := CreateFile(path)
	if err != nil {
		return err
	}

	if err := w.Write(t, optFns...); err != nil {
		w.abort()
		return err
	}

	return w.Close()
}

// ReadFile reads the primary object of the container file at path.
func ReadFile(path string, optFns ...Option) (*tensor.Tensor, error) {
	r, err := OpenFile(path, optFns...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.Read()
}

// FileInfo returns the metadata records of every object in the
// container file at path without reading array data.
func FileInfo(path string, optFns ...Option) (*Info, error) {
	r, err := OpenFile(path, optFns...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	return r.Info()
}
