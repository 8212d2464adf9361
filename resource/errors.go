package resource

import (
	"errors"
	"fmt"
)

// ErrLimitExceeded is returned for requests that can never be satisfied.
var ErrLimitExceeded = errors.New("resource limit exceeded")

// LimitError describes a request larger than the configured limit.
type LimitError struct {
	Resource  string
	Requested int64
	Limit     int64
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s request of %d exceeds limit %d", e.Resource, e.Requested, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrLimitExceeded }
