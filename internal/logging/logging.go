// Package logging provides the structured logger used across the console.
package logging

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type contextKey string

const (
	// TraceIDKey is the context key carrying the per-request trace ID.
	TraceIDKey contextKey = "trace_id"
	// UserIDKey is the context key carrying the authenticated user ID.
	UserIDKey contextKey = "user_id"
	// RoleKey is the context key carrying the authenticated user role.
	RoleKey contextKey = "role"
)

// Logger wraps logrus with context-aware field extraction.
type Logger struct {
	base *logrus.Logger
}

// New creates a logger writing JSON to stderr at the given level.
// Unknown level strings fall back to info.
func New(level string) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	l.SetLevel(parsed)

	return &Logger{base: l}
}

// Entry is a single log entry being built up.
type Entry struct {
	entry *logrus.Entry
}

// WithContext extracts trace ID, user ID and role from the context.
func (l *Logger) WithContext(ctx context.Context) *Entry {
	fields := logrus.Fields{}
	if traceID := GetTraceID(ctx); traceID != "" {
		fields["trace_id"] = traceID
	}
	if userID := GetUserID(ctx); userID != "" {
		fields["user_id"] = userID
	}
	if role := GetRole(ctx); role != "" {
		fields["role"] = role
	}
	return &Entry{entry: l.base.WithFields(fields)}
}

// WithFields starts an entry from bare fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Entry {
	return &Entry{entry: l.base.WithFields(logrus.Fields(fields))}
}

// WithError starts an entry from an error.
func (l *Logger) WithError(err error) *Entry {
	return &Entry{entry: l.base.WithError(err)}
}

// Info logs at info level without extra fields.
func (l *Logger) Info(msg string) { l.base.Info(msg) }

// Warn logs at warn level without extra fields.
func (l *Logger) Warn(msg string) { l.base.Warn(msg) }

// Error logs at error level without extra fields.
func (l *Logger) Error(msg string) { l.base.Error(msg) }

// Fatal logs at fatal level and exits.
func (l *Logger) Fatal(msg string) { l.base.Fatal(msg) }

// LogRequest logs a completed HTTP request with its status and duration.
func (l *Logger) LogRequest(ctx context.Context, method, path string, status int, duration time.Duration) {
	l.WithContext(ctx).WithFields(map[string]interface{}{
		"method":      method,
		"path":        path,
		"status":      status,
		"duration_ms": duration.Milliseconds(),
	}).Info("request completed")
}

// WithError adds an error to the entry.
func (e *Entry) WithError(err error) *Entry {
	return &Entry{entry: e.entry.WithError(err)}
}

// WithFields adds fields to the entry.
func (e *Entry) WithFields(fields map[string]interface{}) *Entry {
	return &Entry{entry: e.entry.WithFields(logrus.Fields(fields))}
}

// WithField adds a single field to the entry.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	return &Entry{entry: e.entry.WithField(key, value)}
}

func (e *Entry) Debug(msg string) { e.entry.Debug(msg) }
func (e *Entry) Info(msg string)  { e.entry.Info(msg) }
func (e *Entry) Warn(msg string)  { e.entry.Warn(msg) }
func (e *Entry) Error(msg string) { e.entry.Error(msg) }
func (e *Entry) Fatal(msg string) { e.entry.Fatal(msg) }

// NewTraceID generates a fresh trace ID.
func NewTraceID() string {
	return uuid.New().String()
}

// WithTraceID returns a context carrying the trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID returns the trace ID from the context, or "".
func GetTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(TraceIDKey).(string); ok {
		return v
	}
	return ""
}

// GetUserID returns the user ID from the context, or "".
func GetUserID(ctx context.Context) string {
	if v, ok := ctx.Value(UserIDKey).(string); ok {
		return v
	}
	return ""
}

// GetRole returns the role from the context, or "".
func GetRole(ctx context.Context) string {
	if v, ok := ctx.Value(RoleKey).(string); ok {
		return v
	}
	return ""
}
