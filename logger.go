package sparsecdf

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with sparsecdf-specific helpers.
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

// WithPath adds a container path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithObject adds an object name field to the logger. The unnamed
// primary logs as "primary".
func (l *Logger) WithObject(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("object", objectLabel(name)),
	}
}

func objectLabel(name string) string {
	if name == "" {
		return "primary"
	}
	return name
}

// LogWrite logs the outcome of writing one object.
func (l *Logger) LogWrite(name, format string, err error) {
	if err != nil {
		l.Error("object write failed",
			"object", objectLabel(name),
			"format", format,
			"error", err,
		)
	} else {
		l.Debug("object written",
			"object", objectLabel(name),
			"format", format,
		)
	}
}

// LogRead logs the outcome of reading one object.
func (l *Logger) LogRead(name string, err error) {
	if err != nil {
		l.Error("object read failed",
			"object", objectLabel(name),
			"error", err,
		)
	} else {
		l.Debug("object read",
			"object", objectLabel(name),
		)
	}
}

// LogClose logs the outcome of closing a session.
func (l *Logger) LogClose(session string, err error) {
	if err != nil {
		l.Error("session close failed",
			"session", session,
			"error", err,
		)
	} else {
		l.Debug("session closed",
			"session", session,
		)
	}
}
