package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/blobstore"
	"github.com/hupe1980/meshid/properties"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Names(t *testing.T) {
	r := Builtin()
	assert.Equal(t, []string{"local", "memory", "minio", "s3"}, r.Names())
}

func TestBuiltin_Aliases(t *testing.T) {
	r := Builtin()
	for _, name := range []string{"memory", "MEM", "Memory", "local", "file", "POSIX", "s3", "AWS", "minio"} {
		_, err := r.Lookup(name)
		assert.NoError(t, err, name)
	}

	_, err := r.Lookup("hdf5")
	assert.ErrorIs(t, err, meshid.ErrConfiguration)
	assert.Contains(t, err.Error(), "memory")
}

func TestBuiltin_OpenMemory(t *testing.T) {
	store, err := Builtin().Open(context.Background(), "mem", nil)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.MemoryStore{}, store)
}

func TestBuiltin_OpenLocal(t *testing.T) {
	r := Builtin()
	ctx := context.Background()

	_, err := r.Open(ctx, "file", properties.Properties{})
	assert.ErrorIs(t, err, meshid.ErrConfiguration)

	root := t.TempDir()
	store, err := r.Open(ctx, "posix", properties.Properties{"ROOT": root})
	require.NoError(t, err)

	local, ok := store.(*blobstore.LocalStore)
	require.True(t, ok)
	assert.Equal(t, root, local.Root())
}

func TestBuiltin_RequiredProperties(t *testing.T) {
	r := Builtin()
	ctx := context.Background()

	_, err := r.Open(ctx, "s3", properties.Properties{})
	assert.ErrorIs(t, err, meshid.ErrConfiguration)

	_, err = r.Open(ctx, "minio", properties.Properties{"BUCKET": "b"})
	assert.ErrorIs(t, err, meshid.ErrConfiguration)

	_, err = r.Open(ctx, "minio", properties.Properties{"ENDPOINT": "localhost:9000", "BUCKET": "b", "SECURE": "maybe"})
	assert.ErrorIs(t, err, meshid.ErrConfiguration)
}

func TestRegistry_Register(t *testing.T) {
	r := New()
	var got properties.Properties
	f := func(_ context.Context, props properties.Properties) (blobstore.BlobStore, error) {
		got = props
		return blobstore.NewMemoryStore(), nil
	}

	require.NoError(t, r.Register("Custom", f))
	assert.Error(t, r.Register("custom", f))
	assert.Error(t, r.Register("", f))
	assert.Error(t, r.Register("other", nil))

	require.NoError(t, r.Alias("custom", "mine"))
	assert.Error(t, r.Alias("missing", "x"))
	assert.Error(t, r.Alias("custom", "custom"))
	assert.Error(t, r.Register("MINE", f))

	props := properties.Properties{"KEY": "v"}
	_, err := r.Open(context.Background(), "Mine", props)
	require.NoError(t, err)
	assert.Equal(t, props, got)

	assert.Equal(t, []string{"custom"}, r.Names())
}

func TestRegistry_FactoryError(t *testing.T) {
	r := New()
	boom := errors.New("boom")
	require.NoError(t, r.Register("broken", func(context.Context, properties.Properties) (blobstore.BlobStore, error) {
		return nil, boom
	}))

	_, err := r.Open(context.Background(), "broken", nil)
	assert.ErrorIs(t, err, boom)
}

func TestRegistries_AreIndependent(t *testing.T) {
	a, b := Builtin(), Builtin()
	require.NoError(t, a.Register("extra", openMemory))

	_, err := b.Lookup("extra")
	assert.Error(t, err)
}
