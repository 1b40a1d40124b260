package config

import (
	"github.com/rshade/pricefetch/internal/logging"
)

// Environment variables that override the logging section of settings.yaml.
const (
	EnvLogLevel  = "PRICEFETCH_LOG_LEVEL"
	EnvLogFormat = "PRICEFETCH_LOG_FORMAT"
)

// LoggingConfig is the logging section of settings.yaml.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ApplyEnv overrides level and format from the environment.
func (lc LoggingConfig) ApplyEnv(lookupEnv func(string) (string, bool)) LoggingConfig {
	if lookupEnv == nil {
		return lc
	}
	if v, ok := lookupEnv(EnvLogLevel); ok && v != "" {
		lc.Level = v
	}
	if v, ok := lookupEnv(EnvLogFormat); ok && v != "" {
		lc.Format = v
	}
	return lc
}

// ToLoggingConfig converts LoggingConfig to logging.Config for use with the
// internal/logging package.
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		File:   lc.File,
	}
}
