package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogger_parseLevel(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected slog.Level
	}{
		{"debug level", "debug", slog.LevelDebug},
		{"debug level uppercase", "DEBUG", slog.LevelDebug},
		{"info level", "info", slog.LevelInfo},
		{"warn level", "warn", slog.LevelWarn},
		{"error level", "error", slog.LevelError},
		{"unknown defaults to info", "whatever", slog.LevelInfo},
		{"empty defaults to info", "", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseLevel(tt.input)

			require.Equal(t, tt.expected, got, "parseLevel(%q) should return %v", tt.input, tt.expected)
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	t.Run("messages below level are discarded", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWriterLogger(&buf, LevelWarn)

		l.Debug("debug message")
		l.Info("info message")
		l.Warn("warn message")
		l.Error("error message")

		out := buf.String()
		require.NotContains(t, out, "debug message")
		require.NotContains(t, out, "info message")
		require.Contains(t, out, "warn message")
		require.Contains(t, out, "error message")
	})

	t.Run("with adds attributes to every record", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewWriterLogger(&buf, LevelInfo).With("component", "session")

		l.Info("hello")

		require.Contains(t, buf.String(), "component=session")
	})

	t.Run("source points at the caller not the wrapper", func(t *testing.T) {
		var buf bytes.Buffer
		l := newSlogLogger(&buf, LevelInfo, true)

		l.Info("check source")

		var record map[string]any
		line := strings.TrimSpace(buf.String())
		require.NoError(t, json.Unmarshal([]byte(line), &record))

		source, ok := record["source"].(map[string]any)
		require.True(t, ok, "record should carry a source attribute")
		require.Equal(t, "logger_test.go", source["file"], "source should be the test file, not slog.go")
	})

	t.Run("noop logger writes nothing and does not panic", func(t *testing.T) {
		l := NewNoOpLogger()

		l.Debug("a")
		l.Info("b", "key", "value")
		l.Error("c")
		l.With("k", "v").Warn("d")
	})
}
