// Package money converts stored minor-unit amounts into decimal values for
// display and export. Arithmetic on stored amounts stays in int64.
package money

import "github.com/shopspring/decimal"

// minorExp is the exponent of one minor unit (cents).
const minorExp = -2

// Major returns amount as a decimal in major units, e.g. 12345 -> 123.45.
func Major(amount int64) decimal.Decimal {
	return decimal.New(amount, minorExp)
}

// Format renders amount in major units with exactly two decimals.
func Format(amount int64) string {
	return Major(amount).StringFixed(2)
}

// Percent returns part as a percentage of whole rounded to two decimals.
// A zero whole yields 0.
func Percent(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	p := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole))
	return p.Round(2).InexactFloat64()
}

// Round2 rounds f half away from zero to two decimals.
func Round2(f float64) float64 {
	return decimal.NewFromFloat(f).Round(2).InexactFloat64()
}

// FormatRate renders a fractional minor-unit amount, such as a daily rate,
// in major units rounded to two decimals.
func FormatRate(minor float64) string {
	return decimal.NewFromFloat(minor).Shift(minorExp).StringFixed(2)
}
