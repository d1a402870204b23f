// Package currencyutils provides the decimal arithmetic used wherever an
// expense amount is rescaled, summed or rendered.
package currencyutils

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ToDecimal converts a float64 amount to a decimal. NaN and infinities are
// rejected because decimal cannot represent them.
func ToDecimal(amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, fmt.Errorf("amount %v is not a finite number", amount)
	}
	return decimal.NewFromFloat(amount), nil
}

// ParseDivisor parses a positive conversion divisor such as "3.7".
func ParseDivisor(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid conversion divisor '%s': %w", s, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("conversion divisor must be positive, got %s", s)
	}
	return d, nil
}

// Rescale divides amount by divisor, e.g. to express a shekel charge in
// dollars. The division runs in decimal so that the only float rounding
// happens on the way back out.
func Rescale(amount float64, divisor string) (float64, error) {
	a, err := ToDecimal(amount)
	if err != nil {
		return 0, err
	}
	d, err := ParseDivisor(divisor)
	if err != nil {
		return 0, err
	}
	f, _ := a.Div(d).Float64()
	return f, nil
}

// FormatAmount renders amount with two decimal places and no thousands
// separators.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatFloat is FormatAmount for a float64 amount.
func FormatFloat(amount float64) string {
	d, err := ToDecimal(amount)
	if err != nil {
		return fmt.Sprintf("%v", amount)
	}
	return FormatAmount(d)
}

// Sum adds amounts exactly.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
