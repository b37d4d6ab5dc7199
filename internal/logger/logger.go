package logger

import (
	"io"
	"log/slog"
	"os"
)

// Constants for logging levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Logger interface defines the logging contract
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	With(args ...any) Logger
}

// NewLogger creates a text logger with the specified level.
// Logs go to stderr so command output on stdout stays parseable.
func NewLogger(level string) Logger {
	return newSlogLogger(os.Stderr, level, false)
}

// NewJSONLogger creates a JSON logger with the specified level
func NewJSONLogger(level string) Logger {
	return newSlogLogger(os.Stderr, level, true)
}

// NewWriterLogger creates a text logger writing to w. Useful in tests
func NewWriterLogger(w io.Writer, level string) Logger {
	return newSlogLogger(w, level, false)
}

// NewNoOpLogger creates a logger that discards all log messages
func NewNoOpLogger() Logger {
	logger := slog.New(slog.DiscardHandler)
	return &slogLogger{logger: logger}
}
