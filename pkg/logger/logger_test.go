package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		level, err := ParseLevel(tt.input)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, level, "ParseLevel(%q)", tt.input)
	}
}

func TestGetLoggerInitializesOnce(t *testing.T) {
	defaultLogger = nil
	first := GetLogger()
	assert.NotNil(t, first)
	assert.Same(t, first, GetLogger())
}
