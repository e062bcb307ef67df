// Package format renders amounts and rates for display.
package format

import (
	"github.com/iwvelando/amortization/pkg/mathutil"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	if amount < 0 {
		return "-$" + NumericCurrency(-amount)
	}
	return "$" + NumericCurrency(amount)
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Money returns the amount rounded half away from zero to cents, without
// separators, as written to machine-readable exports (e.g., "-1234.56").
func Money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}

// Percent renders a fractional rate as a percentage with four decimals (e.g., 0.02 -> "2.0000%").
func Percent(rate float64) string {
	return printer.Sprintf("%.4f%%", mathutil.ToPercentage(rate))
}
