// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// Context keys for logging
const (
	RequestIDKey LogContextKey = "request_id"
	SessionKey   LogContextKey = "session"
	TraceIDKey   LogContextKey = "trace_id"
)

// ctxHandler is a slog.Handler that adds context values to the log record.
type ctxHandler struct {
	slog.Handler
}

// Handle adds context values to the record before passing it to the underlying handler.
func (h *ctxHandler) Handle(ctx context.Context, r slog.Record) error {
	if rid, ok := ctx.Value(RequestIDKey).(string); ok && rid != "" {
		r.AddAttrs(slog.String("request_id", rid))
	}
	if session, ok := ctx.Value(SessionKey).(string); ok && session != "" {
		r.AddAttrs(slog.String("session", session))
	}
	if tid, ok := ctx.Value(TraceIDKey).(string); ok && tid != "" {
		r.AddAttrs(slog.String("trace_id", tid))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *ctxHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ctxHandler{h.Handler.WithAttrs(attrs)}
}

func (h *ctxHandler) WithGroup(name string) slog.Handler {
	return &ctxHandler{h.Handler.WithGroup(name)}
}

func init() {
	InitLogger(os.Getenv("APP_ENV"), os.Stdout)
}

// InitLogger rebuilds GlobalLogger: JSON in production, text otherwise.
func InitLogger(env string, w io.Writer) {
	var handler slog.Handler
	level := slog.LevelInfo

	if env == "production" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	}

	GlobalLogger = &Logger{Logger: slog.New(&ctxHandler{handler})}
	slog.SetDefault(GlobalLogger.Logger)
}

// WithRequestID returns a context carrying the request id for log records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithSession returns a context carrying the session email for log records.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// WithTraceID returns a context carrying the trace id for log records.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TraceIDKey, id)
}

// ExtractRequestID retrieves the request id from the context.
func ExtractRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// StoreLogger provides structured logging for document store operations.
type StoreLogger struct {
	backend string
	key     string
	logger  *Logger
}

// NewStoreLogger creates a StoreLogger for one backend and document key.
func NewStoreLogger(backend, key string) *StoreLogger {
	return &StoreLogger{
		backend: backend,
		key:     key,
		logger:  GlobalLogger,
	}
}

func (l *StoreLogger) attrs(operation string, fields map[string]interface{}) []any {
	attrs := []any{
		slog.String("backend", l.backend),
		slog.String("key", l.key),
		slog.String("operation", operation),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

// LogLoad logs a document load.
func (l *StoreLogger) LogLoad(ctx context.Context, fields map[string]interface{}) {
	l.logger.DebugContext(ctx, "store load", l.attrs("load", fields)...)
}

// LogSave logs a document save.
func (l *StoreLogger) LogSave(ctx context.Context, fields map[string]interface{}) {
	l.logger.InfoContext(ctx, "store save", l.attrs("save", fields)...)
}

// LogFallback logs a persisted document that could not be used.
func (l *StoreLogger) LogFallback(ctx context.Context, err error) {
	l.logger.WarnContext(ctx, "store document unreadable, using defaults",
		l.attrs("load", map[string]interface{}{"error": err.Error()})...)
}

// LogExternalChange logs a change made by another writer.
func (l *StoreLogger) LogExternalChange(ctx context.Context, origin string, version int) {
	l.logger.InfoContext(ctx, "store changed externally",
		l.attrs("refresh", map[string]interface{}{"origin": origin, "version": version})...)
}

// LogError logs a store error.
func (l *StoreLogger) LogError(ctx context.Context, err error, operation string) {
	l.logger.ErrorContext(ctx, "store error", l.attrs(operation, map[string]interface{}{"error": err.Error()})...)
}
