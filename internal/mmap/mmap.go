package mmap

import (
	"errors"
	"io"
	"os"
	"sync"
)

// ErrInvalidOffset is returned by ReadAt for negative offsets.
var ErrInvalidOffset = errors.New("mmap: invalid offset")

// AccessPattern is a hint to the kernel about how a mapping will be read.
type AccessPattern int

const (
	AccessNormal AccessPattern = iota
	AccessSequential
	AccessRandom
)

// File is a read-only memory-mapped file.
type File struct {
	data []byte
	f    *os.File

	closeOnce sync.Once
	closeErr  error
}

// Open maps the file at path into memory as read-only. Empty files are
// not mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &File{f: f}, nil
	}
	if size < 0 || int64(int(size)) != size {
		_ = f.Close()
		return nil, errors.New("mmap: unsupported file size")
	}

	data, err := mmap(f, int(size))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	return &File{data: data, f: f}, nil
}

// Bytes returns the mapped contents.
func (m *File) Bytes() []byte { return m.data }

// Size returns the length of the mapping.
func (m *File) Size() int { return len(m.data) }

// Advise hints the expected access pattern. Errors are ignored since the
// hint is advisory.
func (m *File) Advise(p AccessPattern) {
	if len(m.data) == 0 {
		return
	}
	_ = advise(m.data, p)
}

// ReadAt implements io.ReaderAt.
func (m *File) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close unmaps the memory and closes the underlying file. It is safe to
// call more than once.
func (m *File) Close() error {
	if m == nil {
		return nil
	}
	m.closeOnce.Do(func() {
		if m.data != nil {
			m.closeErr = munmap(m.data)
			m.data = nil
		}
		if err := m.f.Close(); err != nil && m.closeErr == nil {
			m.closeErr = err
		}
	})
	return m.closeErr
}
