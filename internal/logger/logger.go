// Package logger provides structured logging for the application.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger for structured logging.
type Logger struct {
	*slog.Logger
}

// New creates a logger based on environment: text at debug level in
// development, JSON at info level otherwise.
func New(env string) *Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// WithRequestID returns a logger carrying a request ID attribute.
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{Logger: l.With(slog.String("request_id", requestID))}
}

// WithTenant returns a logger carrying tenant and session attributes.
func (l *Logger) WithTenant(tenantID, sessionID string) *Logger {
	return &Logger{Logger: l.With(
		slog.String("tenant_id", tenantID),
		slog.String("session_id", sessionID),
	)}
}

// ProviderFailure logs one failed provider attempt during failover.
func (l *Logger) ProviderFailure(provider string, err error) {
	l.Warn("provider_failure",
		slog.String("provider", provider),
		slog.String("error", err.Error()),
	)
}

// DatabaseError logs a store failure.
func (l *Logger) DatabaseError(operation string, err error) {
	l.Error("database_error",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
}

// NotificationError logs a swallowed notification delivery failure.
func (l *Logger) NotificationError(channel string, err error) {
	l.Warn("notification_failed",
		slog.String("channel", channel),
		slog.String("error", err.Error()),
	)
}
