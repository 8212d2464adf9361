// Package minio provides a blobstore.BlobStore for MinIO and other
// S3-compatible servers, built on minio-go.
//
// # Usage
//
//	store, err := minio.New(ctx, minio.Config{
//	    Endpoint:     "localhost:9000",
//	    AccessKey:    "minioadmin",
//	    SecretKey:    "minioadmin",
//	    Bucket:       "meshid",
//	    Prefix:       "snapshots/",
//	    CreateBucket: true,
//	})
package minio
