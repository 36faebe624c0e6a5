// Package slogger provides the structured logger used across vtodo.
package slogger

import (
	"context"
	"strings"
)

// Logger is the logging surface the bridge components depend on.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)

	// With returns a Logger that adds the given key-value pairs to every record.
	With(keysAndValues ...any) Logger
}

type contextKey struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// Ctx returns the logger carried by ctx, or a DevNullLogger.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return NewDevNullLogger()
	}
	if logger, ok := ctx.Value(contextKey{}).(Logger); ok {
		return logger
	}
	return NewDevNullLogger()
}

// OrDevNull returns logger, or a DevNullLogger when logger is nil.
func OrDevNull(logger Logger) Logger {
	if logger == nil {
		return NewDevNullLogger()
	}
	return logger
}

// LevelFromString converts a level name to a LogLevel.
// Unknown names map to DefaultLogLevel.
func LevelFromString(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return DefaultLogLevel
	}
}
