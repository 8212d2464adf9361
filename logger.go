package meshid

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with meshid-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithMap adds the map name field to the logger.
func (l *Logger) WithMap(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("map", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSetMap logs a segment insertion.
func (l *Logger) LogSetMap(ctx context.Context, offset, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "set map failed",
			"offset", offset,
			"count", count,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "segment inserted",
		"offset", offset,
		"count", count,
	)
}

// LogSequentialLost logs the permanent transition to a non-sequential map.
func (l *Logger) LogSequentialLost(ctx context.Context, offset int, first int64) {
	l.DebugContext(ctx, "map is not sequential",
		"offset", offset,
		"first_id", first,
	)
}

// LogReverseBuild logs construction of the reverse lookup order.
func (l *Logger) LogReverseBuild(ctx context.Context, size int, duration time.Duration) {
	l.DebugContext(ctx, "reverse order built",
		"size", size,
		"duration", duration,
	)
}

// LogContractViolation logs a detected caller contract violation.
func (l *Logger) LogContractViolation(ctx context.Context, err error) {
	l.WarnContext(ctx, "contract violation detected",
		"error", err,
	)
}

// WithSession adds the session id field to the logger.
func (l *Logger) WithSession(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session", id),
	}
}

// LogSnapshotSaved logs a stored map snapshot.
func (l *Logger) LogSnapshotSaved(ctx context.Context, entity string, bytes int, duration time.Duration) {
	l.DebugContext(ctx, "snapshot saved",
		"entity", entity,
		"bytes", bytes,
		"duration", duration,
	)
}

// LogSnapshotLoaded logs a restored map snapshot.
func (l *Logger) LogSnapshotLoaded(ctx context.Context, entity string, size int, duration time.Duration) {
	l.DebugContext(ctx, "snapshot loaded",
		"entity", entity,
		"size", size,
		"duration", duration,
	)
}
