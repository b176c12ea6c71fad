package buffile

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with buffile-specific context.
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
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithSlabSize adds a slab_size field to the logger.
func (l *Logger) WithSlabSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("slab_size", size),
	}
}

// WithMedium adds a medium name field to the logger.
func (l *Logger) WithMedium(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("medium", name),
	}
}

// LogFetch logs a slab fetch.
func (l *Logger) LogFetch(ctx context.Context, start uint64, hit bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "slab fetch failed",
			"start", start,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "slab fetched",
			"start", start,
			"hit", hit,
		)
	}
}

// LogEvict logs a slab eviction.
func (l *Logger) LogEvict(ctx context.Context, start uint64, uses uint32, dirty bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "slab eviction failed",
			"start", start,
			"dirty", dirty,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "slab evicted",
			"start", start,
			"uses", uses,
			"dirty", dirty,
		)
	}
}

// LogExtend logs a zero-fill extension of the medium.
func (l *Logger) LogExtend(ctx context.Context, from, to uint64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "medium extension failed",
			"from", from,
			"to", to,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "medium extended",
			"from", from,
			"to", to,
		)
	}
}

// LogFlush logs a flush of dirty slabs.
func (l *Logger) LogFlush(ctx context.Context, slabs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flush failed",
			"slabs", slabs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "flush completed",
			"slabs", slabs,
		)
	}
}

// LogTeardown logs the final write-back on close or collection.
func (l *Logger) LogTeardown(ctx context.Context, dirty, failed int, err error) {
	if err != nil {
		l.WarnContext(ctx, "teardown completed with failures",
			"dirty", dirty,
			"failed", failed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "teardown completed",
			"dirty", dirty,
		)
	}
}

// LogCapacity logs a capacity change.
func (l *Logger) LogCapacity(ctx context.Context, from, to, evicted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "capacity change failed",
			"from", from,
			"to", to,
			"evicted", evicted,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "capacity changed",
			"from", from,
			"to", to,
			"evicted", evicted,
		)
	}
}
