// Package blobstore provides the storage abstraction for map snapshots.
//
// BlobStore reads and writes immutable blobs by name. Implementations must
// be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: process-local, the default
//   - LocalStore: local file system, mmap-backed reads, atomic renames
//   - CachingStore: whole-blob LRU in front of any other store
//   - s3.Store: Amazon S3 with multipart uploads
//   - minio.Store: MinIO and other S3-compatible servers
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// Use Get or ReadAll to read a blob completely.
package blobstore
