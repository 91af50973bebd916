package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.level.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"verbose", LogLevelInfo},
		{"", LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.input))
		})
	}
}

func TestLoggerWithoutFileDiscards(t *testing.T) {
	l, err := NewLogger(LoggerConfig{Level: LogLevelDebug})
	require.NoError(t, err)

	l.Zap().Info("nothing to see")
	assert.NoError(t, l.Close())
}

func TestLoggerWritesFilteredJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.log")
	l, err := NewLogger(LoggerConfig{Level: LogLevelWarn, File: path})
	require.NoError(t, err)

	log := l.WithComponent("test")
	log.Info("quiet")
	log.Warn("loud")
	l.SetLevel(LogLevelDebug)
	assert.Equal(t, LogLevelDebug, l.Level())
	log.Debug("now visible")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"loud"`)
	assert.Contains(t, lines[0], `"component":"test"`)
	assert.Contains(t, lines[1], `"msg":"now visible"`)
}

func TestNullLogger(t *testing.T) {
	assert.NotNil(t, NullLogger.Zap())
	assert.NoError(t, NullLogger.Close())

	var nilLogger *Logger
	assert.NotNil(t, nilLogger.Zap())
}
