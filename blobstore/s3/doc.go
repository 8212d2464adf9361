// Package s3 provides an Amazon S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("meshid/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Range reads through blobstore.Blob.ReadAt
//   - CRC32C-checked single PUTs for small snapshots
//   - Multipart uploads (feature/s3/manager) for large ones
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
