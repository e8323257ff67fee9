package log

import (
	"context"
	"log/slog"
	"net/http"
)

// ContextKey type for context keys
type ContextKey string

const (
	// LoggerContextKey is the context key for the logger
	LoggerContextKey ContextKey = "logger"
)

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{
		Logger:    slog.Default(),
		component: ComponentApp,
	}
}

// LogHTTPEnd logs the completion of an HTTP request, escalating the level
// with the status code.
func LogHTTPEnd(ctx context.Context, logger *Logger, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	logger.Logger.Log(ctx, level, "HTTP request completed",
		FieldComponent, ComponentHTTP,
		FieldMethod, r.Method,
		FieldPath, r.URL.Path,
		FieldStatusCode, statusCode,
		FieldDuration, durationMs,
		FieldClientIP, clientIP,
		FieldSuccess, statusCode < 400)
}
