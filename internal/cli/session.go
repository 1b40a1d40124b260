package cli

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/config"
	"github.com/rshade/pricefetch/internal/engine"
	"github.com/rshade/pricefetch/internal/engine/cache"
	"github.com/rshade/pricefetch/internal/listings"
	"github.com/rshade/pricefetch/internal/logging"
)

// session carries what every subcommand needs once flags are parsed.
type session struct {
	lookupEnv func(string) (string, bool)
	isTTY     func() bool

	paths       config.Paths
	settings    config.Settings
	settingsErr error
	logger      zerolog.Logger

	prompt  *linePrompter
	runMenu menuRunner
}

// load resolves the home directory and reads settings.yaml. A malformed
// settings file is reported once logging is up; defaults are used meanwhile.
func (s *session) load(cmd *cobra.Command) error {
	dir, _ := cmd.Flags().GetString("config-dir")
	paths, err := config.ResolvePaths(dir, s.lookupEnv)
	if err != nil {
		return err
	}
	s.paths = paths
	s.settings, s.settingsErr = config.LoadSettings(paths.SettingsFile)
	s.logger = zerolog.Nop()
	return nil
}

// prompter returns the line prompter for this invocation. All questions share
// one reader so buffered input is not lost between them.
func (s *session) prompter(cmd *cobra.Command) *linePrompter {
	if s.prompt == nil {
		s.prompt = newLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	return s.prompt
}

func (s *session) configStore() *config.FileStore {
	return config.NewFileStore(s.paths.ConfigFile)
}

func (s *session) resolver(cmd *cobra.Command) *config.Resolver {
	return config.NewResolver(s.configStore(),
		config.WithPrompter(s.prompter(cmd)),
		config.WithLookupEnv(s.lookupEnv),
		config.WithLogger(logging.ComponentLogger(s.logger, "config")),
	)
}

func (s *session) cacheStore() (*cache.Store, error) {
	store, err := cache.NewStore(s.paths.CacheFile,
		cache.WithLogger(logging.ComponentLogger(s.logger, "cache")))
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

func (s *session) client() *listings.Client {
	return listings.NewClient(
		listings.WithBaseURL(s.settings.API.BaseURL),
		listings.WithTimeout(time.Duration(s.settings.API.TimeoutSeconds)*time.Second),
		listings.WithLogger(logging.ComponentLogger(s.logger, "listings")),
	)
}

func (s *session) fetcher(cmd *cobra.Command) (*engine.Fetcher, error) {
	store, err := s.cacheStore()
	if err != nil {
		return nil, err
	}
	return engine.NewFetcher(s.resolver(cmd), store, s.client(),
		engine.WithLogger(logging.ComponentLogger(s.logger, "engine")),
	), nil
}
