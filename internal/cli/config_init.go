package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/config"
)

// newConfigInitCmd creates the config init command, which prompts for the API
// key and cache expiry and writes config.json. Default settings.yaml is
// written alongside when missing.
func newConfigInitCmd(s *session) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Enter the API key and cache expiry",
		Long: `Prompts for the CoinMarketCap API key and the cache expiry in minutes and
saves them to config.json. An empty or invalid expiry uses the default of 60
minutes. A default settings.yaml is created next to it when missing.`,
		Example: `  # Create the configuration
  pricefetch config init

  # Replace an existing configuration
  pricefetch config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store := s.configStore()
			if store.Exists() && !force {
				return errors.New("configuration file already exists, use --force to overwrite")
			}

			cfg := s.resolver(cmd).Reconfigure(cmd.Context())
			if cfg.APIKey == "" {
				return explain(config.ErrNoCredential)
			}

			created, err := ensureSettingsFile(s)
			if err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not write settings file: %v\n", err)
			} else if created {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Default settings written to %s\n", s.paths.SettingsFile)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}
