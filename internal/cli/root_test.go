package cli_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pricefetch/internal/cli"
	"github.com/rshade/pricefetch/internal/config"
)

const listingsBody = `{
  "status": {"error_code": 0, "error_message": null},
  "data": [
    {"id": 1, "name": "Bitcoin", "symbol": "BTC",
     "quote": {"USD": {"price": 67000.12, "market_cap": 1320000000000, "volume_24h": 31000000000, "percent_change_24h": -1.25}}},
    {"id": 1027, "name": "Ethereum", "symbol": "ETH",
     "quote": {"USD": {"price": 2500.5, "market_cap": 300000000000, "volume_24h": 0, "percent_change_24h": null}}},
    {"id": 74, "name": "Dogecoin", "symbol": "DOGE",
     "quote": {"USD": {"price": 0.12, "market_cap": null}}}
  ]
}`

// harness runs pricefetch commands against an isolated config directory.
type harness struct {
	t      *testing.T
	dir    string
	env    map[string]string
	server *httptest.Server
	calls  atomic.Int32
	apiKey atomic.Value
	status int
	body   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:      t,
		dir:    t.TempDir(),
		env:    map[string]string{config.EnvAPIKey: "env-key"},
		status: http.StatusOK,
		body:   listingsBody,
	}
	h.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.calls.Add(1)
		h.apiKey.Store(r.Header.Get("X-CMC_PRO_API_KEY"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(h.status)
		_, _ = w.Write([]byte(h.body))
	}))
	t.Cleanup(h.server.Close)

	settings := config.DefaultSettings()
	settings.API.BaseURL = h.server.URL
	settings.Logging.Level = "error"
	require.NoError(t, config.SaveSettings(filepath.Join(h.dir, "settings.yaml"), settings))
	return h
}

func (h *harness) lookupEnv(k string) (string, bool) {
	v, ok := h.env[k]
	return v, ok
}

// run executes args and returns stdout, stderr, and the command error.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := cli.NewRootCmdWithEnv("1.2.3", h.lookupEnv)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config-dir", h.dir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("", "version")
	require.NoError(t, err)
	assert.Equal(t, "pricefetch version 1.2.3\n", out)
}

func TestRootWithoutTTYPrintsHelp(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("")
	require.NoError(t, err)
	assert.Contains(t, out, "pricefetch downloads the latest cryptocurrency listings")
	assert.Contains(t, out, "Available Commands")
}

func TestFetch_ThenServedFromCache(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "fetch", "--top", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Data fetched and saved to local cache.")
	assert.Contains(t, out, "Top 2 Cryptocurrencies by Market Cap:")
	assert.Contains(t, out, "$1,320,000,000,000.00")
	assert.NotContains(t, out, "Dogecoin")
	assert.Equal(t, int32(1), h.calls.Load())
	assert.FileExists(t, filepath.Join(h.dir, "crypto_data.json"))

	out, _, err = h.run("", "fetch")
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded data from local cache.")
	assert.Equal(t, int32(1), h.calls.Load())

	_, _, err = h.run("", "fetch", "--refresh", "--top", "0")
	require.NoError(t, err)
	assert.Equal(t, int32(2), h.calls.Load())
}

func TestFetch_Unauthorized(t *testing.T) {
	h := newHarness(t)
	h.status = http.StatusUnauthorized
	h.body = `{"status": {"error_code": 1001, "error_message": "This API Key is invalid."}}`

	_, stderr, err := h.run("", "fetch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error occurred")
	assert.Contains(t, err.Error(), "This API Key is invalid.")
	assert.Contains(t, stderr, "HTTP error occurred")
	assert.NoFileExists(t, filepath.Join(h.dir, "crypto_data.json"))
}

func TestFetch_EnvKeyOverridesStoredKey(t *testing.T) {
	h := newHarness(t)
	store := config.NewFileStore(filepath.Join(h.dir, "config.json"))
	require.NoError(t, store.Save(config.Configuration{APIKey: "Y", ExpiryMinutes: 60}))
	h.env[config.EnvAPIKey] = "X"

	_, _, err := h.run("", "fetch", "--top", "0")
	require.NoError(t, err)
	assert.Equal(t, int32(1), h.calls.Load())
	assert.Equal(t, "X", h.apiKey.Load())

	stored, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "Y", stored.APIKey)
}

func TestFetch_CacheWriteFailureStillPrints(t *testing.T) {
	h := newHarness(t)
	blocker := filepath.Join(h.dir, "crypto_data.json", "keep")
	require.NoError(t, os.MkdirAll(blocker, 0o750))

	out, stderr, err := h.run("", "fetch", "--top", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Data fetched but not cached.")
	assert.NotContains(t, out, "saved to local cache")
	assert.Contains(t, out, "Bitcoin")
	assert.NotEmpty(t, stderr)
}

func TestFetch_NoKeyAndNoInput(t *testing.T) {
	h := newHarness(t)
	delete(h.env, config.EnvAPIKey)

	_, _, err := h.run("", "fetch")
	require.ErrorIs(t, err, config.ErrNoCredential)
	assert.Contains(t, err.Error(), "No API key available")
	assert.Equal(t, int32(0), h.calls.Load())
}

func TestFetch_PromptsOnFirstRun(t *testing.T) {
	h := newHarness(t)
	delete(h.env, config.EnvAPIKey)

	out, _, err := h.run("abc123\n\n", "fetch", "--top", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Enter your CoinMarketCap API key: ")
	assert.Contains(t, out, "Data fetched and saved to local cache.")

	raw, err := os.ReadFile(filepath.Join(h.dir, "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key": "abc123", "expiry_minute": 60}`, string(raw))
}

func TestPrice(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("", "price", "btc")
	require.Error(t, err)
	assert.Equal(t, "No cached data found. Please fetch data first.", err.Error())

	_, _, err = h.run("", "fetch", "--top", "0")
	require.NoError(t, err)

	out, _, err := h.run("", "price", "BITCOIN")
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Bitcoin\n")
	assert.Contains(t, out, "Price: $67,000.12\n")
	assert.Contains(t, out, "24h Change: -1.25%\n")

	out, _, err = h.run("", "price", "eth")
	require.NoError(t, err)
	assert.Contains(t, out, "24h Volume: $0.00\n")
	assert.Contains(t, out, "24h Change: N/A\n")

	_, _, err = h.run("", "price", "litecoin")
	require.Error(t, err)
	assert.Equal(t, "Cryptocurrency 'litecoin' not found in the cached data.", err.Error())
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.Remove(filepath.Join(h.dir, "settings.yaml")))

	out, _, err := h.run("key-1\nabc\n", "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Invalid expiry \"abc\", using the default of 60 minutes.")
	assert.Contains(t, out, "Default settings written to")
	assert.FileExists(t, filepath.Join(h.dir, "settings.yaml"))

	raw, err := os.ReadFile(filepath.Join(h.dir, "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key": "key-1", "expiry_minute": 60}`, string(raw))

	_, _, err = h.run("key-2\n5\n", "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = h.run("key-2\n5\n", "config", "init", "--force")
	require.NoError(t, err)
	raw, err = os.ReadFile(filepath.Join(h.dir, "config.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"api_key": "key-2", "expiry_minute": 5}`, string(raw))
}

func TestConfigShowAndPath(t *testing.T) {
	h := newHarness(t)
	h.env[config.EnvAPIKey] = "abcdef123"

	out, _, err := h.run("", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "ab****23 (from environment)")
	assert.Contains(t, out, "Cache expiry: 60 minutes (default)")

	out, _, err = h.run("", "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(h.dir, "crypto_data.json"))
}

func TestCacheStatusAndClear(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No cached snapshot")

	_, _, err = h.run("", "fetch", "--top", "0")
	require.NoError(t, err)

	out, _, err = h.run("", "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Expiry:     60 minutes (fresh)")
	assert.Contains(t, out, "Assets:     3")

	out, _, err = h.run("", "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed cached snapshot")
	assert.NoFileExists(t, filepath.Join(h.dir, "crypto_data.json"))

	_, _, err = h.run("", "cache", "clear")
	require.NoError(t, err, "clearing twice is fine")
}
