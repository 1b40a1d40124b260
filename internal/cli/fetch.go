package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/pricefetch/internal/display"
	"github.com/rshade/pricefetch/internal/engine"
	"github.com/rshade/pricefetch/internal/logging"
)

// fetchParams holds the fetch flags. Zero values fall back to settings.yaml.
type fetchParams struct {
	limit    int
	currency string
	refresh  bool
	top      int
}

// resolve fills unset params from the session settings.
func (p fetchParams) resolve(s *session) fetchParams {
	if p.limit <= 0 {
		p.limit = s.settings.Fetch.Limit
	}
	p.currency = strings.ToUpper(strings.TrimSpace(p.currency))
	if p.currency == "" {
		p.currency = s.settings.Fetch.Currency
	}
	if p.top < 0 {
		p.top = s.settings.Fetch.Top
	}
	return p
}

func newFetchCmd(s *session) *cobra.Command {
	params := fetchParams{top: -1}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch listings, or reuse the cached snapshot while it is fresh",
		Long: `Fetches the latest listings from CoinMarketCap and saves them as the cached
snapshot. While the cached snapshot is younger than the configured expiry it is
used instead and no request is made. The largest assets by market cap are printed.`,
		Example: `  # Use the cache when fresh, otherwise fetch 50 listings in USD
  pricefetch fetch

  # Ignore the cache and fetch 100 listings quoted in EUR
  pricefetch fetch --refresh --limit 100 --currency EUR

  # Fetch without printing the top list
  pricefetch fetch --top 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := runFetch(cmd, s, params.resolve(s))
			return err
		},
	}

	cmd.Flags().IntVar(&params.limit, "limit", 0, "number of listings to request (default from settings, 50)")
	cmd.Flags().StringVar(&params.currency, "currency", "", "quote currency (default from settings, USD)")
	cmd.Flags().BoolVar(&params.refresh, "refresh", false, "ignore a fresh cached snapshot and call the API")
	cmd.Flags().IntVar(&params.top, "top", -1, "number of assets to list by market cap, 0 to skip (default from settings, 5)")

	return cmd
}

// runFetch fetches listings and prints the outcome and the top assets.
func runFetch(cmd *cobra.Command, s *session, p fetchParams) (*engine.Result, error) {
	out := cmd.OutOrStdout()
	log := logging.FromContext(cmd.Context())

	fetcher, err := s.fetcher(cmd)
	if err != nil {
		return nil, explain(err)
	}

	_, _ = fmt.Fprintln(out, "Fetching cryptocurrency data...")
	res, err := fetcher.Fetch(cmd.Context(), engine.Options{
		Limit:    p.limit,
		Currency: p.currency,
		Refresh:  p.refresh,
	})
	if err != nil {
		return nil, explain(err)
	}
	log.Debug().
		Str("source", string(res.Source)).
		Str("credential_source", string(res.Credential)).
		Bool("cached", res.PersistErr == nil).
		Msg("fetch finished")

	if res.PersistErr != nil {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), describeError(res.PersistErr))
	}
	_, _ = fmt.Fprintln(out, fetchOutcome(res))

	if p.top == 0 {
		return res, nil
	}
	top := display.TopByMarketCap(res.Snapshot.Listings(), p.currency, p.top)
	if len(top) == 0 {
		_, _ = fmt.Fprintln(out, "The listings are empty.")
		return res, nil
	}
	_, _ = fmt.Fprintln(out)
	return res, display.RenderTop(out, top, p.currency, s.isTTY())
}

// fetchOutcome says where the listings came from and whether they were cached.
func fetchOutcome(res *engine.Result) string {
	switch {
	case res.Source == engine.SourceCache:
		return "Loaded data from local cache."
	case res.PersistErr != nil:
		return "Data fetched but not cached."
	default:
		return "Data fetched and saved to local cache."
	}
}
