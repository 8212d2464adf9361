package meshid

import "fmt"

// IDWidth is the integer width of global ids stored in a map.
type IDWidth uint8

const (
	// Int64 maps accept any int64 global id. This is the default.
	Int64 IDWidth = iota
	// Int32 maps reject global ids outside the int32 range at insertion time.
	Int32
)

func (w IDWidth) String() string {
	switch w {
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	default:
		return fmt.Sprintf("IDWidth(%d)", uint8(w))
	}
}

// Bits returns the number of bits of the width.
func (w IDWidth) Bits() int {
	if w == Int32 {
		return 32
	}
	return 64
}

// ParseIDWidth parses "32", "int32", "64" or "int64".
func ParseIDWidth(s string) (IDWidth, error) {
	switch s {
	case "32", "int32", "INT32":
		return Int32, nil
	case "64", "int64", "INT64", "":
		return Int64, nil
	default:
		return Int64, fmt.Errorf("%w: unknown id width %q", ErrConfiguration, s)
	}
}

// DefaultParallelThreshold is the buffer length above which bulk translation
// is split across goroutines.
const DefaultParallelThreshold = 1 << 16

type options struct {
	name              string
	width             IDWidth
	logger            *Logger
	metrics           MetricsCollector
	parallelThreshold int
}

func defaultOptions() options {
	return options{
		name:              "map",
		width:             Int64,
		logger:            NoopLogger(),
		metrics:           NoopMetricsCollector{},
		parallelThreshold: DefaultParallelThreshold,
	}
}

// Option configures a Map.
type Option func(*options)

// WithName sets the name used in log records, typically the entity type
// ("node", "element") the map belongs to.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithIDWidth configures the id width of the map.
func WithIDWidth(w IDWidth) Option {
	return func(o *options) {
		o.width = w
	}
}

// WithLogger configures structured logging.
//
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetrics configures a metrics collector.
//
// If nil is passed, metrics are discarded.
func WithMetrics(m MetricsCollector) Option {
	return func(o *options) {
		if m == nil {
			m = NoopMetricsCollector{}
		}
		o.metrics = m
	}
}

// WithParallelThreshold sets the buffer length above which MapData,
// ReverseMapData and MapImplicitData fan out across goroutines.
// Values <= 0 disable parallel translation.
func WithParallelThreshold(n int) Option {
	return func(o *options) {
		o.parallelThreshold = n
	}
}
