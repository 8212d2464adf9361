package blobstore

import (
	"context"
	"testing"

	"github.com/hupe1980/meshid/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	BlobStore
	opens int
}

func (c *countingStore) Open(ctx context.Context, name string) (Blob, error) {
	c.opens++
	return c.BlobStore.Open(ctx, name)
}

func TestCachingStore(t *testing.T) {
	testStore(t, NewCachingStore(NewMemoryStore(), 1<<20, nil))
}

func TestCachingStore_Hits(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{BlobStore: NewMemoryStore()}
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 20})
	s := NewCachingStore(inner, 1<<10, rc)

	require.NoError(t, s.Put(ctx, "a", []byte("aaaa")))

	for range 3 {
		got, err := Get(ctx, s, "a")
		require.NoError(t, err)
		assert.Equal(t, "aaaa", string(got))
	}
	assert.Equal(t, 1, inner.opens)

	hits, misses := s.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, int64(4), s.Size())
	assert.Equal(t, int64(4), rc.MemoryUsage())

	// Writes invalidate.
	require.NoError(t, s.Put(ctx, "a", []byte("bb")))
	assert.Equal(t, int64(0), rc.MemoryUsage())

	got, err := Get(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "bb", string(got))
	assert.Equal(t, 2, inner.opens)

	require.NoError(t, s.Delete(ctx, "a"))
	assert.Equal(t, int64(0), s.Size())
	_, err = s.Open(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCachingStore_Eviction(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s := NewCachingStore(inner, 10, nil)

	require.NoError(t, inner.Put(ctx, "a", []byte("aaaa")))
	require.NoError(t, inner.Put(ctx, "b", []byte("bbbb")))
	require.NoError(t, inner.Put(ctx, "c", []byte("cccc")))
	require.NoError(t, inner.Put(ctx, "big", make([]byte, 11)))

	for _, name := range []string{"a", "b", "a", "c"} {
		_, err := Get(ctx, s, name)
		require.NoError(t, err)
	}

	// "b" was least recently used.
	assert.Equal(t, int64(8), s.Size())
	_, ok := s.get("b")
	assert.False(t, ok)
	_, ok = s.get("a")
	assert.True(t, ok)

	// Larger than capacity: served, never cached.
	_, err := Get(ctx, s, "big")
	require.NoError(t, err)
	assert.Equal(t, int64(8), s.Size())
}

func TestCachingStore_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 4})
	s := NewCachingStore(inner, 1<<10, rc)

	require.NoError(t, inner.Put(ctx, "a", []byte("aaaaaa")))

	got, err := Get(ctx, s, "a")
	require.NoError(t, err)
	assert.Equal(t, "aaaaaa", string(got))
	assert.Equal(t, int64(0), s.Size())
}
