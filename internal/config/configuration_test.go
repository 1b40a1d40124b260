package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadSave(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		store := NewFileStore(filepath.Join(t.TempDir(), "config.json"))

		cfg, err := store.Load()
		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrConfigNotFound)
		assert.False(t, store.Exists())
	})

	t.Run("round trip uses documented field names", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "nested", "config.json")
		store := NewFileStore(path)

		require.NoError(t, store.Save(Configuration{APIKey: "abc123", ExpiryMinutes: 15}))
		assert.True(t, store.Exists())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc map[string]any
		require.NoError(t, json.Unmarshal(raw, &doc))
		assert.Equal(t, map[string]any{"api_key": "abc123", "expiry_minute": float64(15)}, doc)

		cfg, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, Configuration{APIKey: "abc123", ExpiryMinutes: 15}, *cfg)
	})

	t.Run("key whitespace is trimmed", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"api_key": "  k1 ", "expiry_minute": 5}`), 0o600))

		cfg, err := NewFileStore(path).Load()
		require.NoError(t, err)
		assert.Equal(t, "k1", cfg.APIKey)
	})
}

func TestFileStore_LoadRejectsBadShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid json", content: `{"api_key": `},
		{name: "empty key", content: `{"api_key": "", "expiry_minute": 60}`},
		{name: "missing key", content: `{"expiry_minute": 60}`},
		{name: "zero expiry", content: `{"api_key": "k", "expiry_minute": 0}`},
		{name: "negative expiry", content: `{"api_key": "k", "expiry_minute": -3}`},
		{name: "string expiry", content: `{"api_key": "k", "expiry_minute": "60"}`},
		{name: "not an object", content: `["k", 60]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(t.TempDir(), "config.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			cfg, err := NewFileStore(path).Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigRead), "got %v", err)
		})
	}
}

func TestFileStore_SaveFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	err := NewFileStore(filepath.Join(blocker, "config.json")).Save(Configuration{APIKey: "k", ExpiryMinutes: 1})
	assert.ErrorIs(t, err, ErrConfigWrite)
}

func TestParseExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input       string
		want        int
		usedDefault bool
	}{
		{input: "", want: 60, usedDefault: false},
		{input: "   ", want: 60, usedDefault: false},
		{input: "0", want: 60, usedDefault: true},
		{input: "-5", want: 60, usedDefault: true},
		{input: "abc", want: 60, usedDefault: true},
		{input: "1.5", want: 60, usedDefault: true},
		{input: "30", want: 30, usedDefault: false},
		{input: " 120 ", want: 120, usedDefault: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, usedDefault := ParseExpiry(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.usedDefault, usedDefault)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	t.Parallel()

	noEnv := func(string) (string, bool) { return "", false }

	t.Run("flag wins", func(t *testing.T) {
		t.Parallel()
		env := func(string) (string, bool) { return "/from/env", true }
		p, err := ResolvePaths("/from/flag", env)
		require.NoError(t, err)
		assert.Equal(t, "/from/flag", p.Dir)
		assert.Equal(t, filepath.Join("/from/flag", "config.json"), p.ConfigFile)
		assert.Equal(t, filepath.Join("/from/flag", "crypto_data.json"), p.CacheFile)
		assert.Equal(t, filepath.Join("/from/flag", "settings.yaml"), p.SettingsFile)
	})

	t.Run("env next", func(t *testing.T) {
		t.Parallel()
		env := func(k string) (string, bool) {
			if k == EnvHome {
				return "/from/env", true
			}
			return "", false
		}
		p, err := ResolvePaths("", env)
		require.NoError(t, err)
		assert.Equal(t, "/from/env", p.Dir)
	})

	t.Run("home default", func(t *testing.T) {
		t.Parallel()
		p, err := ResolvePaths("", noEnv)
		require.NoError(t, err)
		assert.Equal(t, ".price_fetcher", filepath.Base(p.Dir))
	})
}
