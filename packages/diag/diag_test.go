package diag

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"verbose", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Level: "info", Format: "json", Writer: &buf})

	logger.Info("hello", "key", "value")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestNewLogger_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Options{Writer: &buf})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func withLogger(t *testing.T, buf *bytes.Buffer) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(NewLogger(Options{Writer: buf}))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestRecover_RunsFallback(t *testing.T) {
	var buf bytes.Buffer
	withLogger(t, &buf)

	run := func() (out string) {
		defer Recover("explode", func() { out = "fallback" })
		panic("boom")
	}

	assert.Equal(t, "fallback", run())
	assert.Contains(t, buf.String(), "op=explode")
	assert.Contains(t, buf.String(), "panic=boom")
}

func TestRecover_NoPanic(t *testing.T) {
	var buf bytes.Buffer
	withLogger(t, &buf)

	run := func() (out string) {
		defer Recover("calm", func() { out = "fallback" })
		return "result"
	}

	assert.Equal(t, "result", run())
	assert.Empty(t, buf.String())
}

func TestInit_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Init(Options{})
		Init(Options{Level: "debug"})
	})
}
