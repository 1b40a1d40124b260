package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rshade/pricefetch/internal/listings"
)

const tabPadding = 2

func titleColor() lipgloss.Color { return lipgloss.Color("39") }
func gainColor() lipgloss.Color  { return lipgloss.Color("42") }
func lossColor() lipgloss.Color  { return lipgloss.Color("196") }
func mutedColor() lipgloss.Color { return lipgloss.Color("240") }

// FormatAmount renders an optional amount in currency. USD uses a leading
// dollar sign; other currencies are suffixed with their code.
func FormatAmount(v decimal.NullDecimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if code == "" || code == listings.DefaultCurrency {
		return FormatMoney(v)
	}
	if !v.Valid {
		return NotAvailable
	}
	return FormatDecimal(v.Decimal, 2) + " " + code
}

// RenderTop writes the ranked assets as a table. When styled is set the title
// and the 24h change column are colored.
func RenderTop(w io.Writer, assets []listings.Asset, currency string, styled bool) error {
	title := fmt.Sprintf("Top %d Cryptocurrencies by Market Cap:", len(assets))
	if styled {
		title = lipgloss.NewStyle().Bold(true).Foreground(titleColor()).Render(title)
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "#\tNAME\tSYMBOL\tPRICE\tMARKET CAP\t24H\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, a := range assets {
		q, _ := a.QuoteIn(currency)
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			i+1, a.Name, a.Symbol,
			FormatAmount(q.Price, currency),
			FormatAmount(q.MarketCap, currency),
			changeCell(q.PercentChange24h, styled),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

// RenderAsset writes the detail lines for one asset.
func RenderAsset(w io.Writer, a listings.Asset, currency string, styled bool) error {
	q, _ := a.QuoteIn(currency)

	label := func(s string) string { return s }
	if styled {
		labelStyle := lipgloss.NewStyle().Bold(true)
		label = func(s string) string { return labelStyle.Render(s) }
	}

	lines := []struct{ name, value string }{
		{"Name", a.Name},
		{"Symbol", a.Symbol},
		{"Price", FormatAmount(q.Price, currency)},
		{"Market Cap", FormatAmount(q.MarketCap, currency)},
		{"24h Volume", FormatAmount(q.Volume24h, currency)},
		{"24h Change", changeCell(q.PercentChange24h, styled)},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", label(l.name), l.value); err != nil {
			return fmt.Errorf("writing %s: %w", strings.ToLower(l.name), err)
		}
	}
	return nil
}

func changeCell(v decimal.NullDecimal, styled bool) string {
	s := FormatPercent(v)
	if !styled {
		return s
	}
	switch {
	case !v.Valid:
		return lipgloss.NewStyle().Foreground(mutedColor()).Render(s)
	case v.Decimal.IsNegative():
		return lipgloss.NewStyle().Foreground(lossColor()).Render(s)
	default:
		return lipgloss.NewStyle().Foreground(gainColor()).Render(s)
	}
}
