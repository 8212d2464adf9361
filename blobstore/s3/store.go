package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/hupe1980/meshid/blobstore"
)

// Store implements blobstore.BlobStore for S3.
type Store struct {
	client   Client
	bucket   string
	prefix   string
	upload   UploadConfig
	uploader *manager.Uploader
}

var _ blobstore.BlobStore = (*Store)(nil)

// Options configures New.
type Options struct {
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	Upload    UploadConfig
}

// Option configures New.
type Option func(*Options)

// WithPrefix sets the key prefix, e.g. "meshid/".
func WithPrefix(prefix string) Option {
	return func(o *Options) { o.Prefix = prefix }
}

// WithRegion sets the AWS region.
func WithRegion(region string) Option {
	return func(o *Options) { o.Region = region }
}

// WithEndpoint sets a custom endpoint and switches to path-style
// addressing, as needed by most S3-compatible servers.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) { o.Endpoint = endpoint }
}

// WithCredentials sets static credentials instead of the default chain.
func WithCredentials(accessKey, secretKey string) Option {
	return func(o *Options) {
		o.AccessKey = accessKey
		o.SecretKey = secretKey
	}
}

// WithUploadConfig overrides the upload settings.
func WithUploadConfig(cfg UploadConfig) Option {
	return func(o *Options) { o.Upload = cfg }
}

// New loads the default AWS configuration and creates a Store.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := Options{Upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}

	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewStore(client, bucket, opts.Prefix, WithUploadConfig(opts.Upload)), nil
}

// NewStore creates a Store on an existing client. rootPrefix is prepended
// to all keys. Only WithUploadConfig is honoured.
func NewStore(client Client, bucket, rootPrefix string, optFns ...Option) *Store {
	opts := Options{Upload: DefaultUploadConfig()}
	for _, fn := range optFns {
		fn(&opts)
	}

	prefix := strings.Trim(rootPrefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &Store{
		client:   client,
		bucket:   bucket,
		prefix:   prefix,
		upload:   opts.Upload,
		uploader: newUploader(client, opts.Upload),
	}
}

func (s *Store) key(name string) string {
	return s.prefix + name
}

// Open checks the blob exists and returns a handle for range reads.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, blobstore.ErrNotFound
		}
		return nil, err
	}

	return &blob{
		client: s.client,
		bucket: s.bucket,
		key:    key,
		size:   aws.ToInt64(head.ContentLength),
	}, nil
}

// Put uploads data. Blobs of at least one part go through the multipart
// uploader.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	key := s.key(name)
	if int64(len(data)) < s.upload.PartSize {
		return putWithChecksum(ctx, s.client, s.bucket, key, data)
	}
	return putMultipart(ctx, s.uploader, s.bucket, key, data)
}

// Delete removes the object. S3 does not report missing keys.
func (s *Store) Delete(ctx context.Context, name string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(name)),
	})
	return err
}

// List pages through all keys with the prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.key(prefix)),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			keys = append(keys, strings.TrimPrefix(aws.ToString(obj.Key), s.prefix))
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsk *types.NoSuchKey
	return errors.As(err, &nsk)
}

// blob implements blobstore.Blob with ranged GETs.
type blob struct {
	client Client
	bucket string
	key    string
	size   int64
}

func (b *blob) Close() error { return nil }

func (b *blob) Size() int64 { return b.size }

// ReadAt reads len(p) bytes starting at off.
func (b *blob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if off < 0 || off >= b.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	end := min(off+int64(len(p))-1, b.size-1)

	resp, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(b.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end)),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, blobstore.ErrNotFound
		}
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	want := int(end - off + 1)
	n, err := io.ReadFull(resp.Body, p[:want])
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
