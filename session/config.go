package session

import (
	"runtime"

	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/properties"
	"github.com/hupe1980/meshid/resource"
	"github.com/hupe1980/meshid/snapshot"
)

// Property keys read by Open. Back-end specific keys (BUCKET, ROOT, ...)
// are passed through to the storage factory.
const (
	PropStorage     = "STORAGE"
	PropIDWidth     = "ID_WIDTH"
	PropCompression = "COMPRESSION"
	PropMaxWorkers  = "MAX_WORKERS"
	PropIOLimit     = "IO_LIMIT_BYTES"
	PropMemoryLimit = "MEMORY_LIMIT_BYTES"
	PropCacheBytes  = "CACHE_BYTES"
)

// DefaultStorage is used when STORAGE is not set.
const DefaultStorage = "memory"

// config is the parsed session configuration.
type config struct {
	storage     string
	width       meshid.IDWidth
	compression snapshot.Compression
	cacheBytes  int64
	limits      resource.Config
}

func parseConfig(props properties.Properties) (config, error) {
	cfg := config{
		storage: props.String(PropStorage, DefaultStorage),
	}

	var err error
	if cfg.width, err = meshid.ParseIDWidth(props.String(PropIDWidth, "")); err != nil {
		return cfg, err
	}
	if cfg.compression, err = snapshot.ParseCompression(props.String(PropCompression, "zstd")); err != nil {
		return cfg, &properties.Error{Key: PropCompression, Value: props.String(PropCompression, ""), Reason: err.Error()}
	}

	if cfg.limits.MaxWorkers, err = props.Int(PropMaxWorkers, int64(runtime.GOMAXPROCS(0))); err != nil {
		return cfg, err
	}
	if cfg.limits.IOLimitBytesPerSec, err = props.Int(PropIOLimit, 0); err != nil {
		return cfg, err
	}
	if cfg.limits.MemoryLimitBytes, err = props.Int(PropMemoryLimit, 0); err != nil {
		return cfg, err
	}
	if cfg.cacheBytes, err = props.Int(PropCacheBytes, 0); err != nil {
		return cfg, err
	}

	for key, v := range map[string]int64{
		PropMaxWorkers:  cfg.limits.MaxWorkers,
		PropIOLimit:     cfg.limits.IOLimitBytesPerSec,
		PropMemoryLimit: cfg.limits.MemoryLimitBytes,
		PropCacheBytes:  cfg.cacheBytes,
	} {
		if v < 0 {
			return cfg, &properties.Error{Key: key, Value: props.String(key, ""), Reason: "must not be negative"}
		}
	}
	return cfg, nil
}
