// Package display selects and renders listings for the terminal.
package display

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for values the upstream omitted or sent as null.
const NotAvailable = "N/A"

// printer groups thousands with English separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatDecimal formats d rounded to precision places with thousand separators.
// Example: FormatDecimal(1234.567, 2) returns "1,234.57".
func FormatDecimal(d decimal.Decimal, precision int32) string {
	fixed := d.Abs().StringFixed(precision)
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	if d.Round(precision).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupDigits(intPart))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// groupDigits inserts a comma every three digits from the right. The input is
// an unsigned run of digits of any length.
func groupDigits(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(len(digits) + (len(digits)-1)/3)
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatMoney renders an optional amount as "$1,234.57", or N/A when absent.
// Zero is a real value and renders as "$0.00".
func FormatMoney(v decimal.NullDecimal) string {
	if !v.Valid {
		return NotAvailable
	}
	s := FormatDecimal(v.Decimal, 2)
	if rest, negative := strings.CutPrefix(s, "-"); negative {
		return "-$" + rest
	}
	return "$" + s
}

// FormatPercent renders an optional percentage as "-1.25%", or N/A when absent.
func FormatPercent(v decimal.NullDecimal) string {
	if !v.Valid {
		return NotAvailable
	}
	return FormatDecimal(v.Decimal, 2) + "%"
}
