package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLogging(t *testing.T) {
	var buf bytes.Buffer
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })
	SetLogger(NewLogger(Config{Level: slog.LevelDebug, Format: "json", Writer: &buf}))

	ctx := context.WithValue(context.Background(), ConnectionIDKey, "conn-1")
	ctx = context.WithValue(ctx, RequestIDKey, "req-2")
	ctx = context.WithValue(ctx, UserKey, "alice")

	InfoContext(ctx, "query executed", "rows", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "query executed", entry["msg"])
	assert.Equal(t, "conn-1", entry["connection_id"])
	assert.Equal(t, "req-2", entry["request_id"])
	assert.Equal(t, "alice", entry["user"])
	assert.Equal(t, float64(3), entry["rows"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	previous := Logger
	t.Cleanup(func() { SetLogger(previous) })
	SetLogger(NewLogger(Config{Level: slog.LevelWarn, Format: "text", Writer: &buf}))

	Debug("hidden")
	Info("hidden")
	Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "msg=shown"), out)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_ADD_SOURCE", "true")

	config := LoadConfig()
	assert.Equal(t, slog.LevelDebug, config.Level)
	assert.Equal(t, "json", config.Format)
	assert.True(t, config.AddSource)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("LOG_FORMAT", "xml")
	t.Setenv("LOG_ADD_SOURCE", "maybe")

	assert.Equal(t, DefaultConfig().Level, LoadConfig().Level)
	assert.Equal(t, "text", LoadConfig().Format)
	assert.False(t, LoadConfig().AddSource)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in    string
		level slog.Level
		ok    bool
	}{
		{"DEBUG", slog.LevelDebug, true},
		{"warning", slog.LevelWarn, true},
		{"Error", slog.LevelError, true},
		{"-8", slog.Level(-8), true},
		{"verbose", 0, false},
	}
	for _, tt := range tests {
		level, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.level, level, tt.in)
		}
	}
}
