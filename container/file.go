package container

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hupe1980/sparsecdf/internal/fs"
)

// fsys backs SaveFile and LoadFile. Tests swap in a faulty
// implementation to exercise the failure paths of the atomic save.
var fsys = fs.Default

// SaveFile writes the container to path atomically: the encoded bytes
// go to a temp file in the same directory, which is synced and then
// renamed over the target. A crash mid-save leaves any previous file
// intact.
func (m *Memory) SaveFile(path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}

	tmp := path + ".tmp-" + uuid.NewString()

	f, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("container: failed to create temp file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return fmt.Errorf("container: failed to write %s: %w", path, err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = fsys.Remove(tmp)
		return fmt.Errorf("container: failed to sync %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("container: failed to close %s: %w", path, err)
	}

	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("container: failed to rename %s: %w", path, err)
	}

	// Best-effort directory sync so the rename itself is durable.
	if d, err := fsys.OpenFile(filepath.Dir(path), os.O_RDONLY, 0); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}

// LoadFile reads a container file written by SaveFile. A missing file
// satisfies errors.Is(err, os.ErrNotExist).
func LoadFile(path string) (*Memory, error) {
	f, err := fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("container: failed to read %s: %w", path, err)
	}

	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("container: %s: %w", path, err)
	}

	return m, nil
}
