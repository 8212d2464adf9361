package fs

import (
	"errors"
	"os"
	"strings"
	"sync"
)

// ErrInjected is returned by injected faults that carry no error of their
// own.
var ErrInjected = errors.New("fs: injected fault")

// Fault defines the failure behavior for files matching a rule.
type Fault struct {
	FailAfterBytes int64 // -1 disables the write limit
	FailOnSync     bool
	FailOnClose    bool
	FailOnRename   bool
	Err            error
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return ErrInjected
}

// NoFault is the default rule.
var NoFault = Fault{FailAfterBytes: -1}

// FaultyFS wraps a FileSystem and injects errors for files whose name
// contains a rule's pattern. The last added matching rule wins.
type FaultyFS struct {
	FS FileSystem

	mu      sync.Mutex
	rules   []rule
	renames int
}

type rule struct {
	pattern string
	fault   Fault
}

// NewFaultyFS creates a FaultyFS wrapping fsys, or Default if nil.
func NewFaultyFS(fsys FileSystem) *FaultyFS {
	if fsys == nil {
		fsys = Default
	}
	return &FaultyFS{FS: fsys}
}

// AddRule injects fault for every file whose name contains pattern. An
// empty pattern matches every file.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules = append(f.rules, rule{pattern: pattern, fault: fault})
}

// Renames returns the number of successful renames.
func (f *FaultyFS) Renames() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.renames
}

func (f *FaultyFS) match(name string) Fault {
	f.mu.Lock()
	defer f.mu.Unlock()

	fault := NoFault
	for _, r := range f.rules {
		if strings.Contains(name, r.pattern) {
			fault = r.fault
		}
	}
	return fault
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultyFile{File: file, fault: f.match(name)}, nil
}

func (f *FaultyFS) Remove(name string) error {
	return f.FS.Remove(name)
}

// Rename fails if a rule matching either path sets FailOnRename.
func (f *FaultyFS) Rename(oldpath, newpath string) error {
	for _, p := range []string{oldpath, newpath} {
		if fault := f.match(p); fault.FailOnRename {
			return fault.err()
		}
	}
	if err := f.FS.Rename(oldpath, newpath); err != nil {
		return err
	}

	f.mu.Lock()
	f.renames++
	f.mu.Unlock()
	return nil
}

func (f *FaultyFS) MkdirAll(path string, perm os.FileMode) error {
	return f.FS.MkdirAll(path, perm)
}

type faultyFile struct {
	File
	fault   Fault
	written int64
}

// Write writes up to the byte limit and fails once it would be exceeded,
// leaving a short file behind.
func (ff *faultyFile) Write(p []byte) (int, error) {
	if limit := ff.fault.FailAfterBytes; limit >= 0 && ff.written+int64(len(p)) > limit {
		n, err := ff.File.Write(p[:limit-ff.written])
		ff.written += int64(n)
		if err != nil {
			return n, err
		}
		return n, ff.fault.err()
	}

	n, err := ff.File.Write(p)
	ff.written += int64(n)
	return n, err
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
