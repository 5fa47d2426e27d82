package logger

import "context"

type ctxKey struct{}

// LoggerCtxKey is the context key under which a Logger is stored.
var LoggerCtxKey = ctxKey{}

// ContextWithLogger returns a child context carrying the given logger.
func ContextWithLogger(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, LoggerCtxKey, log)
}

// FromContext returns the logger stored in ctx, falling back to the default
// logger when the context carries none (or carries something that is not a
// Logger).
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return defaultLogger
	}
	if log, ok := ctx.Value(LoggerCtxKey).(Logger); ok && log != nil {
		return log
	}
	return defaultLogger
}
