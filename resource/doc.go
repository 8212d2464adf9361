// Package resource bounds the work done by storage sessions.
//
// A Controller manages three resources:
//
//   - Memory: reservations for snapshot buffers and cached blobs
//   - Workers: concurrent snapshot encode/decode jobs
//   - IO: storage throughput (token bucket)
//
// # Usage
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes:   1 << 30,
//	    MaxWorkers:         4,
//	    IOLimitBytesPerSec: 100 << 20,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// All methods are safe for concurrent use. A nil *Controller imposes no
// limits.
package resource
