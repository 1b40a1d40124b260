package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// File and directory names under the pricefetch home directory.
const (
	defaultDirName   = ".price_fetcher"
	configFileName   = "config.json"
	cacheFileName    = "crypto_data.json"
	settingsFileName = "settings.yaml"

	// EnvHome overrides the pricefetch home directory.
	EnvHome = "PRICEFETCH_HOME"
)

// Paths locates every file pricefetch reads or writes.
type Paths struct {
	Dir          string
	ConfigFile   string
	CacheFile    string
	SettingsFile string
}

// NewPaths lays out the standard files under dir.
func NewPaths(dir string) Paths {
	return Paths{
		Dir:          dir,
		ConfigFile:   filepath.Join(dir, configFileName),
		CacheFile:    filepath.Join(dir, cacheFileName),
		SettingsFile: filepath.Join(dir, settingsFileName),
	}
}

// ResolvePaths picks the home directory: flagDir if set, then PRICEFETCH_HOME,
// then ~/.price_fetcher.
func ResolvePaths(flagDir string, lookupEnv func(string) (string, bool)) (Paths, error) {
	if flagDir != "" {
		return NewPaths(flagDir), nil
	}
	if lookupEnv != nil {
		if dir, ok := lookupEnv(EnvHome); ok && dir != "" {
			return NewPaths(dir), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("determining home directory: %w", err)
	}
	return NewPaths(filepath.Join(home, defaultDirName)), nil
}
