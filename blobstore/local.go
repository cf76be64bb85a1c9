package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalStore implements Store using the local file system. Blob names
// map to paths under the root directory; writes land in a temp file
// and are renamed into place, so concurrent readers never observe a
// partial blob.
type LocalStore struct {
	root string
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

func (s *LocalStore) path(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Open opens a blob for reading.
func (s *LocalStore) Open(_ context.Context, name string) (Blob, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &localBlob{f: f, size: info.Size()}, nil
}

// Create creates a blob for streaming writes. The blob appears under
// its final name only when Close succeeds.
func (s *LocalStore) Create(_ context.Context, name string) (WritableBlob, error) {
	target := s.path(name)

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".tmp-*")
	if err != nil {
		return nil, err
	}

	return &localWritableBlob{f: tmp, target: target}, nil
}

// Put writes a blob atomically via temp file plus rename.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	w, err := s.Create(ctx, name)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// Delete removes a blob. A missing blob is not an error.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// List returns all blob names with the given prefix, sorted. Names use
// forward slashes regardless of platform.
func (s *LocalStore) List(_ context.Context, prefix string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(rel)
		if prefix == "" || strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

// localBlob implements Blob over an open file.
type localBlob struct {
	f    *os.File
	size int64
}

func (b *localBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return b.f.ReadAt(p, off)
}

func (b *localBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if off > b.size {
		off = b.size
	}
	if off+length > b.size {
		length = b.size - off
	}

	return io.NopCloser(io.NewSectionReader(b.f, off, length)), nil
}

func (b *localBlob) Size() int64 {
	return b.size
}

func (b *localBlob) Close() error {
	return b.f.Close()
}

// localWritableBlob writes to a temp file and renames it into place on
// Close.
type localWritableBlob struct {
	f      *os.File
	target string
	closed bool
}

func (w *localWritableBlob) Write(p []byte) (int, error) {
	return w.f.Write(p)
}

func (w *localWritableBlob) Sync() error {
	return w.f.Sync()
}

func (w *localWritableBlob) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	tmpName := w.f.Name()

	if err := w.f.Sync(); err != nil {
		_ = w.f.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := w.f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, w.target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("blobstore: failed to rename %s: %w", w.target, err)
	}

	return nil
}
