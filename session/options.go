package session

import (
	"github.com/hupe1980/meshid"
	"github.com/hupe1980/meshid/resource"
)

type options struct {
	logger     *meshid.Logger
	metrics    meshid.MetricsCollector
	controller *resource.Controller
	id         string
}

// Option configures a Session.
type Option func(*options)

// WithLogger configures structured logging for the session and its maps.
func WithLogger(l *meshid.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = meshid.NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector shared by all maps.
func WithMetrics(m meshid.MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = meshid.NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithController replaces the controller built from MAX_WORKERS,
// IO_LIMIT_BYTES and MEMORY_LIMIT_BYTES, so several sessions can share
// one set of limits.
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithID sets the session id instead of generating a random one.
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}
