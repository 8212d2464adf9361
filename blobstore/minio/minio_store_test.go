package minio

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/meshid/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", normalizePrefix(""))
	assert.Equal(t, "", normalizePrefix("/"))
	assert.Equal(t, "snapshots/", normalizePrefix("snapshots"))
	assert.Equal(t, "snapshots/", normalizePrefix("/snapshots/"))
	assert.Equal(t, "a/b/", normalizePrefix("a/b"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.True(t, isNotFound(minio.ErrorResponse{Code: "NotFound"}))
	assert.False(t, isNotFound(minio.ErrorResponse{Code: "AccessDenied"}))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(context.Background(), Config{Bucket: "b"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

// TestMinioStore_Integration requires a running MinIO instance at
// MINIO_ENDPOINT.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}

	ctx := context.Background()
	store, err := New(ctx, Config{
		Endpoint:     endpoint,
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		Bucket:       "test-meshid",
		Prefix:       fmt.Sprintf("run-%d", time.Now().UnixNano()),
		CreateBucket: true,
	})
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	data := []byte("MIDX snapshot on minio")
	require.NoError(t, store.Put(ctx, "s1/node.midx", data))

	got, err := blobstore.Get(ctx, store, "s1/node.midx")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "s1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"s1/node.midx"}, names)

	require.NoError(t, store.Delete(ctx, "s1/node.midx"))
	require.NoError(t, store.Delete(ctx, "s1/node.midx"))

	_, err = store.Open(ctx, "s1/node.midx")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
