package display

import (
	"sort"
	"strings"

	"github.com/rshade/pricefetch/internal/listings"
)

// TopByMarketCap returns up to n assets ordered by market cap in currency,
// largest first. Assets without a market cap sort last and ties keep their
// upstream order. The input slice is not modified.
func TopByMarketCap(assets []listings.Asset, currency string, n int) []listings.Asset {
	if n <= 0 || len(assets) == 0 {
		return nil
	}

	sorted := make([]listings.Asset, len(assets))
	copy(sorted, assets)

	sort.SliceStable(sorted, func(i, j int) bool {
		qi, _ := sorted[i].QuoteIn(currency)
		qj, _ := sorted[j].QuoteIn(currency)
		switch {
		case !qi.MarketCap.Valid:
			return false
		case !qj.MarketCap.Valid:
			return true
		default:
			return qi.MarketCap.Decimal.GreaterThan(qj.MarketCap.Decimal)
		}
	})

	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// Find returns the first asset whose name or symbol equals query, ignoring
// case and surrounding whitespace.
func Find(assets []listings.Asset, query string) (listings.Asset, bool) {
	q := strings.TrimSpace(query)
	if q == "" {
		return listings.Asset{}, false
	}
	for _, a := range assets {
		if strings.EqualFold(a.Name, q) || strings.EqualFold(a.Symbol, q) {
			return a, true
		}
	}
	return listings.Asset{}, false
}
