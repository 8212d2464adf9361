package fs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	lfs := LocalFS{}

	require.NoError(t, lfs.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, "a.midx")
	f, err := lfs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	require.NoError(t, err)
	assert.Equal(t, path, f.Name())

	_, err = f.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, f.Sync())
	require.NoError(t, f.Close())

	// O_EXCL refuses an existing file.
	_, err = lfs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	assert.ErrorIs(t, err, os.ErrExist)

	renamed := filepath.Join(dir, "b.midx")
	require.NoError(t, lfs.Rename(path, renamed))
	data, err := os.ReadFile(renamed)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, lfs.Remove(renamed))
	_, err = os.Stat(renamed)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFaultyFS_WriteLimit(t *testing.T) {
	ffs := NewFaultyFS(nil)
	ffs.AddRule(".tmp", Fault{FailAfterBytes: 5})

	path := filepath.Join(t.TempDir(), "x.tmp")
	f, err := ffs.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)

	n, err := f.Write([]byte("hel"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = f.Write([]byte("lo world"))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 2, n)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFaultyFS_Rules(t *testing.T) {
	custom := errors.New("disk on fire")

	ffs := NewFaultyFS(LocalFS{})
	ffs.AddRule("", Fault{FailAfterBytes: -1, FailOnSync: true})
	ffs.AddRule("close", Fault{FailAfterBytes: -1, FailOnClose: true, Err: custom})

	dir := t.TempDir()

	f, err := ffs.OpenFile(filepath.Join(dir, "sync"), os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
	assert.ErrorIs(t, f.Sync(), ErrInjected)
	assert.NoError(t, f.Close())

	// The later rule wins and does not fail Sync.
	f, err = ffs.OpenFile(filepath.Join(dir, "close"), os.O_WRONLY|os.O_CREATE, 0o644)
	require.NoError(t, err)
	assert.NoError(t, f.Sync())
	assert.ErrorIs(t, f.Close(), custom)
}

func TestFaultyFS_Rename(t *testing.T) {
	dir := t.TempDir()
	ffs := NewFaultyFS(nil)
	ffs.AddRule("final", Fault{FailAfterBytes: -1, FailOnRename: true})

	src := filepath.Join(dir, "src")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	assert.ErrorIs(t, ffs.Rename(src, filepath.Join(dir, "final")), ErrInjected)
	assert.Zero(t, ffs.Renames())

	require.NoError(t, ffs.Rename(src, filepath.Join(dir, "other")))
	assert.Equal(t, 1, ffs.Renames())
}
