package nngrid

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with nngrid-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithID adds an interpolator ID field to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("interpolator", id),
	}
}

// WithK adds a k (neighbour count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithMethod adds a weighting method field to the logger.
func (l *Logger) WithMethod(m Method) *Logger {
	return &Logger{
		Logger: l.Logger.With("method", m.String()),
	}
}

// LogBuild logs an index build.
func (l *Logger) LogBuild(ctx context.Context, sources, targets int, spacing float64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"sources", sources,
			"targets", targets,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "build completed",
			"sources", sources,
			"targets", targets,
			"spacing", spacing,
		)
	}
}

// LogApply logs an interpolation call.
func (l *Logger) LogApply(ctx context.Context, batch, targets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "apply failed",
			"batch", batch,
			"targets", targets,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "apply completed",
			"batch", batch,
			"targets", targets,
		)
	}
}
