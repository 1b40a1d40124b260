// Package config resolves the API credential and cache expiry window for
// pricefetch and persists them between runs.
//
// The credential is taken from the first source that has one, in this order:
// the CMC_API_KEY environment variable, the config file, an interactive prompt.
// Only a prompted configuration is written back to disk; the environment value
// is used for the current run only.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExpiryMinutes is the cache expiry window used when none was configured
// or the configured value is unusable.
const DefaultExpiryMinutes = 60

// Configuration errors.
var (
	// ErrConfigNotFound means no config file exists yet.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrConfigRead means the config file exists but could not be read or parsed.
	ErrConfigRead = errors.New("config file is unreadable")
	// ErrConfigWrite means the configuration could not be persisted.
	ErrConfigWrite = errors.New("failed to write config file")
)

// Configuration is the persisted credential and expiry policy.
type Configuration struct {
	APIKey        string `json:"api_key"`
	ExpiryMinutes int    `json:"expiry_minute"`
}

// Validate checks the shape a stored configuration must have.
func (c Configuration) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("api_key is empty")
	}
	if c.ExpiryMinutes <= 0 {
		return fmt.Errorf("expiry_minute must be positive, got %d", c.ExpiryMinutes)
	}
	return nil
}

// FileStore reads and writes the JSON config file.
type FileStore struct {
	path string
}

// NewFileStore returns a store for the config file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the config file path.
func (s *FileStore) Path() string {
	return s.path
}

// Exists reports whether the config file is present.
func (s *FileStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the config file. A missing file yields ErrConfigNotFound; a file
// that is not JSON of the expected shape yields ErrConfigRead.
func (s *FileStore) Load() (*Configuration, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}

	var cfg Configuration
	if unmarshalErr := json.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, unmarshalErr)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, validateErr)
	}
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	return &cfg, nil
}

// Save writes cfg to the config file atomically.
func (s *FileStore) Save(cfg Configuration) error {
	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, err)
	}

	if mkdirErr := os.MkdirAll(filepath.Dir(s.path), 0o750); mkdirErr != nil {
		return fmt.Errorf("%w: creating config directory: %w", ErrConfigWrite, mkdirErr)
	}

	tmpPath := s.path + ".tmp"
	if writeErr := os.WriteFile(tmpPath, data, 0o600); writeErr != nil {
		return fmt.Errorf("%w: %w", ErrConfigWrite, writeErr)
	}
	if renameErr := os.Rename(tmpPath, s.path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %w", ErrConfigWrite, renameErr)
	}
	return nil
}
