package resource

import (
	"context"
	"io"
)

// RateLimitedReader wraps an io.Reader with the controller's IO limit.
type RateLimitedReader struct {
	ctx context.Context
	r   io.Reader
	rc  *Controller
}

// NewRateLimitedReader creates a new RateLimitedReader.
func NewRateLimitedReader(ctx context.Context, r io.Reader, rc *Controller) *RateLimitedReader {
	return &RateLimitedReader{
		ctx: ctx,
		r:   r,
		rc:  rc,
	}
}

// Read charges the bytes actually read against the limit.
func (r *RateLimitedReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if n > 0 {
		if waitErr := r.rc.AcquireIO(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
