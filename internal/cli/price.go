package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/display"
	"github.com/rshade/pricefetch/internal/engine/cache"
)

func newPriceCmd(s *session) *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "price <name|symbol>",
		Short: "Show the cached price of one cryptocurrency",
		Long: `Looks up a cryptocurrency by name or symbol, ignoring case, in the cached
snapshot. No request is made; run 'pricefetch fetch' first.`,
		Example: `  pricefetch price bitcoin
  pricefetch price ETH
  pricefetch price "bitcoin cash" --currency EUR`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur := strings.ToUpper(strings.TrimSpace(currency))
			if cur == "" {
				cur = s.settings.Fetch.Currency
			}
			return runPrice(cmd, s, strings.Join(args, " "), cur)
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "quote currency (default from settings, USD)")
	return cmd
}

// runPrice prints one asset from the cached snapshot.
func runPrice(cmd *cobra.Command, s *session, query, currency string) error {
	out := cmd.OutOrStdout()

	store, err := s.cacheStore()
	if err != nil {
		return explain(err)
	}
	snap, err := store.Load()
	if err != nil {
		return explain(err)
	}

	asset, ok := display.Find(snap.Listings(), query)
	if !ok {
		return &userError{msg: fmt.Sprintf(msgNotFound, strings.TrimSpace(query))}
	}

	if err = display.RenderAsset(out, asset, currency, s.isTTY()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "\nData as of %s (%s ago).\n",
		snap.FetchedAt.Local().Format("2006-01-02 15:04:05"),
		cache.FormatDuration(snap.Age(time.Now())))
	return nil
}
