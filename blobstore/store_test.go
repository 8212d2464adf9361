package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behaviour every BlobStore must provide.
func testStore(t *testing.T, s BlobStore) {
	t.Helper()
	ctx := context.Background()

	data := []byte("MIDX snapshot for the node map")

	require.NoError(t, s.Put(ctx, "s1/node.midx", data))
	require.NoError(t, s.Put(ctx, "s1/elem.midx", []byte("elem")))
	require.NoError(t, s.Put(ctx, "s2/node.midx", []byte("other")))

	t.Run("Open", func(t *testing.T) {
		b, err := s.Open(ctx, "s1/node.midx")
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, int64(len(data)), b.Size())

		buf := make([]byte, 8)
		n, err := b.ReadAt(ctx, buf, 5)
		require.NoError(t, err)
		assert.Equal(t, 8, n)
		assert.Equal(t, "snapshot", string(buf))

		n, err = b.ReadAt(ctx, buf, int64(len(data)-3))
		assert.Equal(t, 3, n)
		assert.ErrorIs(t, err, io.EOF)

		got, err := ReadAll(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("PutCopies", func(t *testing.T) {
		buf := []byte("abc")
		require.NoError(t, s.Put(ctx, "copy", buf))
		buf[0] = 'x'

		got, err := Get(ctx, s, "copy")
		require.NoError(t, err)
		assert.Equal(t, "abc", string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, s.Put(ctx, "s1/elem.midx", []byte("elem v2")))
		got, err := Get(ctx, s, "s1/elem.midx")
		require.NoError(t, err)
		assert.Equal(t, "elem v2", string(got))
	})

	t.Run("List", func(t *testing.T) {
		names, err := s.List(ctx, "s1/")
		require.NoError(t, err)
		assert.Equal(t, []string{"s1/elem.midx", "s1/node.midx"}, names)

		names, err = s.List(ctx, "none/")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "s2/node.midx"))
		require.NoError(t, s.Delete(ctx, "s2/node.midx"))

		_, err := s.Open(ctx, "s2/node.midx")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := Get(ctx, s, "missing.midx")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	testStore(t, NewMemoryStore())
}

func TestMemoryStore_Canceled(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Put(ctx, "a", nil), context.Canceled)
	_, err := s.Open(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

// readerBlob hides Mappable so that ReadAll goes through ReadAt.
type readerBlob struct {
	Blob
}

func TestReadAll_ReadAt(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 10_000)
	for i := range data {
		data[i] = byte(i)
	}

	got, err := ReadAll(ctx, readerBlob{&memoryBlob{data: data}})
	require.NoError(t, err)
	assert.Equal(t, data, got)

	got, err = io.ReadAll(NewReader(ctx, readerBlob{&memoryBlob{data: data}}))
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

// shortBlob claims to be larger than it is.
type shortBlob struct {
	memoryBlob
}

func (b *shortBlob) Size() int64 { return int64(len(b.data)) + 10 }

func TestReadAll_Short(t *testing.T) {
	_, err := ReadAll(context.Background(), readerBlob{&shortBlob{memoryBlob{data: []byte("abc")}}})
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
