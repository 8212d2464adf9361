package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// NewReader returns an io.Reader over the whole blob. Every read honours
// ctx.
func NewReader(ctx context.Context, b Blob) io.Reader {
	return &contextSectionReader{blob: b, ctx: ctx, limit: b.Size()}
}

type contextSectionReader struct {
	blob  Blob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *contextSectionReader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if errors.Is(err, io.EOF) && r.off < r.limit {
		return n, io.ErrUnexpectedEOF
	}
	if errors.Is(err, io.EOF) {
		err = nil
	}
	return n, err
}

// ReadAll reads the whole blob into memory. Mappable blobs are copied
// without going through ReadAt.
func ReadAll(ctx context.Context, b Blob) ([]byte, error) {
	if m, ok := b.(Mappable); ok {
		return append([]byte(nil), m.Bytes()...), nil
	}

	size := b.Size()
	if size < 0 || int64(int(size)) != size {
		return nil, fmt.Errorf("blobstore: unsupported blob size %d", size)
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(NewReader(ctx, b), buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// Get opens name and reads it completely.
func Get(ctx context.Context, s BlobStore, name string) ([]byte, error) {
	b, err := s.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	return ReadAll(ctx, b)
}
