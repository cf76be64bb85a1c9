package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is returned by FaultyFS rules that do not set their own
// error.
var ErrInjected = errors.New("injected fault")

// Fault describes how a matched file misbehaves.
type Fault struct {
	FailAfterBytes int64 // fail writes once this many bytes went to the file, -1 to disable
	FailOnSync     bool
	FailOnClose    bool
	Err            error
}

// FaultyFS wraps a FileSystem and injects errors into files whose
// names contain a registered pattern. Tests use it to exercise the
// partial-write and fsync failure paths of the atomic save.
type FaultyFS struct {
	FS FileSystem

	mu    sync.Mutex
	rules map[string]Fault
}

// NewFaultyFS wraps fsys, or Default when fsys is nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}

	return &FaultyFS{
		FS:    fsys,
		rules: make(map[string]Fault),
	}
}

// AddRule registers a fault for files whose name contains pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	fault := Fault{FailAfterBytes: -1}
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) {
			fault = rule
		}
	}
	f.mu.Unlock()

	if fault.Err == nil {
		fault.Err = ErrInjected
	}

	return &faultyFile{File: file, fault: fault}, nil
}

func (f *FaultyFS) Remove(name string) error {
	return f.FS.Remove(name)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	return f.FS.Rename(oldpath, newpath)
}

type faultyFile struct {
	File
	fault   Fault
	written int64
}

func (ff *faultyFile) Write(p []byte) (int, error) {
	if ff.fault.FailAfterBytes >= 0 && ff.written+int64(len(p)) > ff.fault.FailAfterBytes {
		return 0, ff.fault.Err
	}

	n, err := ff.File.Write(p)
	if n > 0 {
		ff.written += int64(n)
	}

	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.Err
	}

	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.Err
	}

	return ff.File.Close()
}
