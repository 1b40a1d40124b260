package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "", want: DefaultLevel},
		{level: "debug", want: zerolog.DebugLevel},
		{level: " INFO ", want: zerolog.InfoLevel},
		{level: "bogus", want: DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			result := NewLogger(Config{Level: tt.level}, &buf)
			assert.Equal(t, tt.want, result.Logger.GetLevel())
			assert.False(t, result.UsingFile())
		})
	}
}

func TestNewLogger_JSONToStderr(t *testing.T) {
	var buf bytes.Buffer
	result := NewLogger(Config{Level: "info", Format: FormatJSON}, &buf)

	l := ComponentLogger(result.Logger, "cache")
	l.Info().Msg("hello")

	var event map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, "cache", event["component"])
	assert.Equal(t, "hello", event["message"])
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pricefetch.log")
	var buf bytes.Buffer

	result := NewLogger(Config{Level: "info", File: path}, &buf)
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile())
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("to file")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Empty(t, buf.String())
}

func TestNewLogger_FileFallback(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	var buf bytes.Buffer
	result := NewLogger(Config{Level: "warn", File: filepath.Join(blocker, "app.log")}, &buf)

	assert.False(t, result.UsingFile())
	assert.NotEmpty(t, result.FallbackReason)
	require.NoError(t, result.Close())
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	generated := GetOrGenerateTraceID(ctx)
	assert.Len(t, generated, 26)

	ctx = ContextWithTraceID(ctx, "01HZY")
	assert.Equal(t, "01HZY", TraceIDFromContext(ctx))
	assert.Equal(t, "01HZY", GetOrGenerateTraceID(ctx))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	ctx := l.WithContext(context.Background())

	FromContext(ctx).Warn().Msg("from ctx")
	assert.Contains(t, buf.String(), "from ctx")

	assert.Equal(t, zerolog.Disabled, FromContext(context.Background()).GetLevel())
}
