package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, test.level.String())
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelDebug.SlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogLevel(999).SlogLevel())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel(" error "))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}

func TestInitForCLI_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("Test", "hidden %d", 1)
	Info("Test", "visible %d", 2)
	Error("Test", errors.New("boom"), "failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden 1")
	assert.Contains(t, out, "visible 2")
	assert.Contains(t, out, "subsystem=Test")
	assert.Contains(t, out, "error=boom")
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "****wxyz", MaskSecret("abcdefghijklmnopqrstuvwxyz"))
}
