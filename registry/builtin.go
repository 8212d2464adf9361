package registry

import (
	"context"
	"fmt"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/blobstore"
	"github.com/hupe1980/meshid/blobstore/minio"
	"github.com/hupe1980/meshid/blobstore/s3"
	"github.com/hupe1980/meshid/properties"
)

// Builtin returns a new registry with the bundled back-ends:
//
//	memory (mem)          in-process
//	local (file, posix)   ROOT
//	s3 (aws)              BUCKET, PREFIX, REGION, ENDPOINT, ACCESS_KEY, SECRET_KEY
//	minio                 ENDPOINT, BUCKET, PREFIX, REGION, ACCESS_KEY, SECRET_KEY, SECURE
func Builtin() *Registry {
	r := New()
	mustRegister(r, "memory", openMemory, "mem")
	mustRegister(r, "local", openLocal, "file", "posix")
	mustRegister(r, "s3", openS3, "aws")
	mustRegister(r, "minio", openMinio)
	return r
}

func mustRegister(r *Registry, name string, f Factory, aliases ...string) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
	for _, a := range aliases {
		if err := r.Alias(name, a); err != nil {
			panic(err)
		}
	}
}

func requireProp(props properties.Properties, key string) (string, error) {
	v, ok := props.Get(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: property %s is required", meshid.ErrConfiguration, key)
	}
	return v, nil
}

func openMemory(context.Context, properties.Properties) (blobstore.BlobStore, error) {
	return blobstore.NewMemoryStore(), nil
}

func openLocal(_ context.Context, props properties.Properties) (blobstore.BlobStore, error) {
	root, err := requireProp(props, "ROOT")
	if err != nil {
		return nil, err
	}
	return blobstore.NewLocalStore(root)
}

func openS3(ctx context.Context, props properties.Properties) (blobstore.BlobStore, error) {
	bucket, err := requireProp(props, "BUCKET")
	if err != nil {
		return nil, err
	}

	opts := []s3.Option{
		s3.WithPrefix(props.String("PREFIX", "")),
		s3.WithRegion(props.String("REGION", "")),
		s3.WithEndpoint(props.String("ENDPOINT", "")),
	}
	if ak := props.String("ACCESS_KEY", ""); ak != "" {
		opts = append(opts, s3.WithCredentials(ak, props.String("SECRET_KEY", "")))
	}
	return s3.New(ctx, bucket, opts...)
}

func openMinio(ctx context.Context, props properties.Properties) (blobstore.BlobStore, error) {
	endpoint, err := requireProp(props, "ENDPOINT")
	if err != nil {
		return nil, err
	}
	bucket, err := requireProp(props, "BUCKET")
	if err != nil {
		return nil, err
	}
	secure, err := props.Bool("SECURE", true)
	if err != nil {
		return nil, err
	}

	return minio.New(ctx, minio.Config{
		Endpoint:     endpoint,
		AccessKey:    props.String("ACCESS_KEY", ""),
		SecretKey:    props.String("SECRET_KEY", ""),
		Secure:       secure,
		Region:       props.String("REGION", ""),
		Bucket:       bucket,
		Prefix:       props.String("PREFIX", ""),
		CreateBucket: true,
	})
}
