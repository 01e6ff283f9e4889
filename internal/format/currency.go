// Package format renders engine output for display: currency amounts by ISO
// code and percentage/ratio strings. Formatting lives outside the analytics
// package so the engine itself only deals in numbers.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"AUD": "A$",
	"CAD": "C$",
	"CHF": "Fr ",
}

// Currency renders an amount with the symbol for the given ISO code, two
// decimal places, and thousands separators. Unknown codes fall back to
// "CODE 1,234.56".
func Currency(amount decimal.Decimal, code string) string {
	symbol, ok := currencySymbols[code]
	if !ok {
		symbol = code + " "
	}

	fixed := amount.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	if neg {
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(whole)

	if neg {
		return "-" + symbol + grouped + "." + frac
	}
	return symbol + grouped + "." + frac
}

// Percent renders an already-scaled percentage value ("8.33%" from 8.33)
// with the given number of decimal places.
func Percent(value float64, places int) string {
	return fmt.Sprintf("%.*f%%", places, value)
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
