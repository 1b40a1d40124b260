package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/config"
	"github.com/rshade/pricefetch/internal/display"
	"github.com/rshade/pricefetch/internal/engine/cache"
)

func newCacheCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or remove the cached snapshot",
	}
	cmd.AddCommand(newCacheStatusCmd(s), newCacheClearCmd(s))
	return cmd
}

func newCacheStatusCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the age and freshness of the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			store, err := s.cacheStore()
			if err != nil {
				return explain(err)
			}

			info, err := store.Status()
			if err != nil {
				if errors.Is(err, cache.ErrCacheNotFound) {
					_, _ = fmt.Fprintf(out, "No cached snapshot at %s\n", store.Path())
					return nil
				}
				return explain(err)
			}

			expiry := config.DefaultExpiryMinutes
			if stored, loadErr := s.configStore().Load(); loadErr == nil {
				expiry = stored.ExpiryMinutes
			}
			state := "stale"
			if store.IsValid(expiry) {
				state = "fresh"
			}

			_, _ = fmt.Fprintf(out, "Path:       %s\n", info.Path)
			_, _ = fmt.Fprintf(out, "Fetched at: %s\n", info.FetchedAt.Local().Format("2006-01-02 15:04:05"))
			_, _ = fmt.Fprintf(out, "Age:        %s\n", cache.FormatDuration(info.Age))
			_, _ = fmt.Fprintf(out, "Expiry:     %d minutes (%s)\n", expiry, state)
			_, _ = fmt.Fprintf(out, "Assets:     %s\n", display.FormatNumber(int64(info.Assets)))
			_, _ = fmt.Fprintf(out, "Size:       %s bytes\n", display.FormatNumber(info.SizeBytes))
			return nil
		},
	}
}

func newCacheClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := s.cacheStore()
			if err != nil {
				return explain(err)
			}
			if err = store.Clear(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed cached snapshot %s\n", store.Path())
			return nil
		},
	}
}
