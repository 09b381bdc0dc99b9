// Package logger provides structured logging for the service.
package logger

import "context"

// Logger is the structured logging interface used throughout the service.
// All log methods accept a message followed by key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// With creates a child logger whose entries always carry the given
	// key-value pairs.
	With(args ...any) Logger

	// WithContext creates a child logger that carries the request ID found
	// in ctx, if any.
	WithContext(ctx context.Context) Logger
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// ContextWithRequestID stores a request ID for WithContext to pick up.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Noop is a Logger that discards everything. Useful in tests.
type Noop struct{}

func (Noop) Debug(string, ...any)                 {}
func (Noop) Info(string, ...any)                  {}
func (Noop) Warn(string, ...any)                  {}
func (Noop) Error(string, ...any)                 {}
func (n Noop) With(...any) Logger                 { return n }
func (n Noop) WithContext(context.Context) Logger { return n }
