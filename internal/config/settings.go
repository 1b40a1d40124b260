package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rshade/pricefetch/internal/listings"
)

// ErrSettingsRead means settings.yaml exists but could not be parsed.
var ErrSettingsRead = errors.New("settings file is unreadable")

// Fetch defaults.
const (
	DefaultLimit = listings.DefaultLimit
	DefaultTop   = 5
)

// Settings holds optional tuning read from settings.yaml.
type Settings struct {
	Logging LoggingConfig `yaml:"logging"`
	Fetch   FetchSettings `yaml:"fetch"`
	API     APISettings   `yaml:"api"`
}

// FetchSettings are the defaults for the fetch command.
type FetchSettings struct {
	Limit    int    `yaml:"limit"`
	Currency string `yaml:"currency"`
	Top      int    `yaml:"top"`
}

// APISettings point the listings client at its endpoint.
type APISettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultSettings returns the settings used when settings.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Logging: LoggingConfig{Level: "warn", Format: "console"},
		Fetch: FetchSettings{
			Limit:    DefaultLimit,
			Currency: listings.DefaultCurrency,
			Top:      DefaultTop,
		},
		API: APISettings{
			BaseURL:        listings.DefaultBaseURL,
			TimeoutSeconds: int(listings.DefaultTimeout.Seconds()),
		},
	}
}

// withDefaults fills every unset or invalid field from DefaultSettings.
func (s Settings) withDefaults() Settings {
	d := DefaultSettings()
	if s.Logging.Level == "" {
		s.Logging.Level = d.Logging.Level
	}
	if s.Logging.Format == "" {
		s.Logging.Format = d.Logging.Format
	}
	if s.Fetch.Limit <= 0 {
		s.Fetch.Limit = d.Fetch.Limit
	}
	s.Fetch.Currency = strings.ToUpper(strings.TrimSpace(s.Fetch.Currency))
	if s.Fetch.Currency == "" {
		s.Fetch.Currency = d.Fetch.Currency
	}
	if s.Fetch.Top <= 0 {
		s.Fetch.Top = d.Fetch.Top
	}
	if s.API.BaseURL == "" {
		s.API.BaseURL = d.API.BaseURL
	}
	if s.API.TimeoutSeconds <= 0 {
		s.API.TimeoutSeconds = d.API.TimeoutSeconds
	}
	return s
}

// LoadSettings reads settings.yaml. A missing file yields defaults; a malformed
// one yields defaults and an error wrapping ErrSettingsRead.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return DefaultSettings(), fmt.Errorf("%w: %w", ErrSettingsRead, err)
	}

	var s Settings
	if err = yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%w: parsing %s: %w", ErrSettingsRead, path, err)
	}
	return s.withDefaults(), nil
}

// SaveSettings writes s to path as YAML.
func SaveSettings(path string, s Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings file: %w", err)
	}
	return nil
}
