package logging

import (
	"log/slog"
	"sync/atomic"
)

// tracing gates per-point logs that would drown the debug level.
var tracing atomic.Bool

// SetTrace turns per-point trace logs on or off.
func SetTrace(on bool) { tracing.Store(on) }

// TraceEnabled reports whether trace logs are on.
func TraceEnabled() bool { return tracing.Load() }

// Trace logs at DEBUG level on logger when tracing is on.
func Trace(logger *slog.Logger, msg string, args ...any) {
	if tracing.Load() {
		logger.Debug(msg, args...)
	}
}

// TraceDefault is Trace on the default logger.
func TraceDefault(msg string, args ...any) {
	if tracing.Load() {
		slog.Debug(msg, args...)
	}
}
