package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/config"
)

func newConfigCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the API key and cache expiry",
	}
	cmd.AddCommand(newConfigShowCmd(s), newConfigInitCmd(s), newConfigPathCmd(s))
	return cmd
}

func newConfigShowCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration without prompting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			store := s.configStore()

			stored, loadErr := store.Load()
			if loadErr != nil && !errors.Is(loadErr, config.ErrConfigNotFound) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error reading config file: %v\n", loadErr)
			}

			cred, credErr := config.ResolveCredential(cmd.Context(),
				config.EnvCredential{LookupEnv: s.lookupEnv},
				config.StoredCredential{Config: stored},
			)

			expiry := config.DefaultExpiryMinutes
			expiryFrom := "default"
			if stored != nil {
				expiry = stored.ExpiryMinutes
				expiryFrom = string(config.SourceFile)
			}

			_, _ = fmt.Fprintf(out, "Config file:  %s\n", store.Path())
			if credErr != nil {
				_, _ = fmt.Fprintln(out, "API key:      not set")
			} else {
				_, _ = fmt.Fprintf(out, "API key:      %s (from %s)\n", maskKey(cred.Key), cred.Source)
			}
			_, _ = fmt.Fprintf(out, "Cache expiry: %d minutes (%s)\n", expiry, expiryFrom)
			_, _ = fmt.Fprintf(out, "Fetch:        limit %d, currency %s, top %d\n",
				s.settings.Fetch.Limit, s.settings.Fetch.Currency, s.settings.Fetch.Top)
			_, _ = fmt.Fprintf(out, "Logging:      level %s, format %s\n",
				s.settings.Logging.Level, s.settings.Logging.Format)
			return nil
		},
	}
}

func newConfigPathCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the files pricefetch reads and writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Directory: %s\n", s.paths.Dir)
			_, _ = fmt.Fprintf(out, "Config:    %s\n", s.paths.ConfigFile)
			_, _ = fmt.Fprintf(out, "Cache:     %s\n", s.paths.CacheFile)
			_, _ = fmt.Fprintf(out, "Settings:  %s\n", s.paths.SettingsFile)
			return nil
		},
	}
}

// maskKey keeps the first and last two characters of key.
func maskKey(key string) string {
	const visible = 2
	if len(key) <= 2*visible {
		return "****"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// ensureSettingsFile writes default settings when none exist yet.
func ensureSettingsFile(s *session) (bool, error) {
	if _, err := os.Stat(s.paths.SettingsFile); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("cannot access settings path %s: %w", s.paths.SettingsFile, err)
	}
	if err := config.SaveSettings(s.paths.SettingsFile, config.DefaultSettings()); err != nil {
		return false, err
	}
	return true, nil
}
