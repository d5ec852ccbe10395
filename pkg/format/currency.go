// Package format renders portfolio figures for display. Rounding happens here
// and nowhere earlier.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Millions returns a euro amount in millions with two decimals and thousands
// separators (e.g., "€15.73M", "-€1,204.50M").
func Millions(amount float64) string {
	return millionsWithPlaces(amount, 2)
}

// NumericMillions returns the amount without symbol or suffix (e.g., "15.73").
func NumericMillions(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Percent returns a percentage with one decimal (e.g., "72.5%").
func Percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(1) + "%"
}

func millionsWithPlaces(amount float64, places int32) string {
	d := decimal.NewFromFloat(amount).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	return sign + "€" + groupThousands(d.StringFixed(places)) + "M"
}

func groupThousands(formatted string) string {
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	if len(parts) == 2 {
		return intPart + "." + parts[1]
	}
	return intPart
}
