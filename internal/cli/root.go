// Package cli implements the pricefetch command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/pricefetch/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewRootCmd creates the root Cobra command for the pricefetch CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for testability.
func NewRootCmdWithEnv(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	s := &session{
		lookupEnv: lookupEnv,
		isTTY:     func() bool { return isTerminal(os.Stdin) && isTerminal(os.Stdout) },
	}
	var logResult *logging.Result

	cmd := &cobra.Command{
		Use:   "pricefetch",
		Short: "Fetch and cache cryptocurrency prices from CoinMarketCap",
		Long: `pricefetch downloads the latest cryptocurrency listings from CoinMarketCap,
keeps the last snapshot on disk, and answers price queries from it.

The API key is taken from CMC_API_KEY, then from the config file, and is
otherwise requested interactively and saved.`,
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := s.load(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd, s)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			if logResult != nil {
				return logResult.Close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !s.isTTY() {
				return cmd.Help()
			}
			return runMenuLoop(cmd, s)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config-dir", "",
		"directory holding config.json, crypto_data.json and settings.yaml (default ~/.price_fetcher)")
	cmd.AddCommand(
		newFetchCmd(s),
		newPriceCmd(s),
		newConfigCmd(s),
		newCacheCmd(s),
		newMenuCmd(s),
		newVersionCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # Fetch the top 50 listings, or reuse a fresh cached snapshot
  pricefetch fetch

  # Always call the API and show the top 10 by market cap
  pricefetch fetch --refresh --top 10

  # Show the cached price of one cryptocurrency
  pricefetch price btc

  # Enter a new API key and cache expiry
  pricefetch config init --force

  # Inspect the cached snapshot
  pricefetch cache status

  # Open the interactive menu
  pricefetch menu`
