// Package logger provides the process-wide structured logger.
package logger

import (
	"context"
	"log/slog"
)

// Logger is the global logger instance
var Logger *slog.Logger

// ContextKey is used for context values
type ContextKey string

const (
	// ConnectionIDKey is the context key for a server connection id
	ConnectionIDKey ContextKey = "connection_id"
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"
	// UserKey is the context key for the authenticated user name
	UserKey ContextKey = "user"
)

func init() {
	Logger = NewLogger(LoadConfig())
}

func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

func DebugContext(ctx context.Context, msg string, args ...any) {
	Logger.Debug(msg, appendContextArgs(ctx, args...)...)
}

func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

func InfoContext(ctx context.Context, msg string, args ...any) {
	Logger.Info(msg, appendContextArgs(ctx, args...)...)
}

func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

func WarnContext(ctx context.Context, msg string, args ...any) {
	Logger.Warn(msg, appendContextArgs(ctx, args...)...)
}

func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}

func ErrorContext(ctx context.Context, msg string, args ...any) {
	Logger.Error(msg, appendContextArgs(ctx, args...)...)
}

// With returns a new Logger that includes the given attributes in each output operation
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}

// WithContext returns a new Logger carrying the ids stored in ctx
func WithContext(ctx context.Context) *slog.Logger {
	return Logger.With(appendContextArgs(ctx)...)
}

// SetLogLevel rebuilds the global logger with level.
func SetLogLevel(level slog.Level) {
	config := LoadConfig()
	config.Level = level
	Logger = NewLogger(config)
}

// SetLogger replaces the global logger.
func SetLogger(l *slog.Logger) {
	Logger = l
}

func appendContextArgs(ctx context.Context, args ...any) []any {
	if ctx == nil {
		return args
	}

	if connectionID, ok := ctx.Value(ConnectionIDKey).(string); ok {
		args = append(args, string(ConnectionIDKey), connectionID)
	}

	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		args = append(args, string(RequestIDKey), requestID)
	}

	if user, ok := ctx.Value(UserKey).(string); ok {
		args = append(args, string(UserKey), user)
	}

	return args
}
