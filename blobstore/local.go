package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	vfs "github.com/hupe1980/meshid/internal/fs"
	"github.com/hupe1980/meshid/internal/mmap"
)

// tmpPrefix marks blobs that are still being written.
const tmpPrefix = ".tmp-"

// LocalStore implements BlobStore on the local file system. Blob names
// use forward slashes and map to paths below the root directory.
type LocalStore struct {
	root string
	fsys vfs.FileSystem
}

// NewLocalStore creates a new LocalStore rooted at the given directory.
// The directory is created if it does not exist.
func NewLocalStore(root string) (*LocalStore, error) {
	return newLocalStore(root, vfs.Default)
}

func newLocalStore(root string, fsys vfs.FileSystem) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("blobstore: local store needs a root directory")
	}
	if err := fsys.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root: %w", err)
	}
	return &LocalStore{root: root, fsys: fsys}, nil
}

// Root returns the root directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(name string) (string, error) {
	if name == "" || !fs.ValidPath(name) {
		return "", fmt.Errorf("blobstore: invalid blob name %q", name)
	}
	return filepath.Join(s.root, filepath.FromSlash(name)), nil
}

// Open maps the blob into memory.
func (s *LocalStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := s.path(name)
	if err != nil {
		return nil, err
	}

	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	// Snapshots are decoded front to back.
	m.Advise(mmap.AccessSequential)
	return &localBlob{m: m}, nil
}

// Put writes the blob to a temporary file and renames it into place, so
// readers never see a partial blob.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.path(name)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := s.fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, tmpPrefix+uuid.NewString())
	if err := s.writeFile(tmp, data); err != nil {
		_ = s.fsys.Remove(tmp)
		return fmt.Errorf("blobstore: write %s: %w", name, err)
	}
	if err := s.fsys.Rename(tmp, path); err != nil {
		_ = s.fsys.Remove(tmp)
		return fmt.Errorf("blobstore: write %s: %w", name, err)
	}
	return nil
}

func (s *LocalStore) writeFile(path string, data []byte) error {
	f, err := s.fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Delete removes the blob.
func (s *LocalStore) Delete(_ context.Context, name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := s.fsys.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// List walks the root directory.
func (s *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), tmpPrefix) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(names)
	return names, nil
}

type localBlob struct {
	m *mmap.File
}

func (b *localBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := b.m.ReadAt(p, off)
	if errors.Is(err, mmap.ErrInvalidOffset) {
		return 0, io.EOF
	}
	return n, err
}

func (b *localBlob) Close() error { return b.m.Close() }

func (b *localBlob) Size() int64 { return int64(b.m.Size()) }

func (b *localBlob) Bytes() []byte { return b.m.Bytes() }
