// Package money implements the fixed-point arithmetic used for amounts,
// rates and fees. Every intermediate value keeps Scale fractional digits and
// division truncates rather than rounds, so results do not depend on the
// order in which binary floats would have accumulated error.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept by Mul and Div.
const Scale int32 = 10

var (
	errNegativeAmount = errors.New("amount must not be negative")
	errTooManyDigits  = errors.New("amount has more fractional digits than the currency allows")
	errAmountOverflow = errors.New("amount does not fit in minor units")
	errNotANumber     = errors.New("amount is not a decimal number")
)

var hundred = decimal.NewFromInt(100)

// FromMinor converts an integer amount of minor units to display units.
func FromMinor(minor int64, places int32) decimal.Decimal {
	return decimal.New(minor, -places)
}

// ToMinor converts a display amount to minor units, truncating anything
// below one minor unit.
func ToMinor(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Shift(places).Truncate(0)
}

// Parse reads a display amount such as "1200.00" and returns it in minor units.
func Parse(display string, places int32) (int64, error) {
	display = strings.TrimSpace(display)
	amount, err := decimal.NewFromString(display)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotANumber, display)
	}
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: %s", errNegativeAmount, display)
	}
	if !amount.Truncate(places).Equal(amount) {
		return 0, fmt.Errorf("%w: %s allows %d", errTooManyDigits, display, places)
	}

	minor := amount.Shift(places).BigInt()
	if !minor.IsInt64() {
		return 0, fmt.Errorf("%w: %s", errAmountOverflow, display)
	}

	return minor.Int64(), nil
}

// Mul multiplies exactly and truncates the product to Scale digits.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(Scale)
}

// Div divides a by b, truncating the quotient to Scale digits.
// b must not be zero.
func Div(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, Scale)
	return q
}

// Percent returns percent% of amount.
func Percent(amount, percent decimal.Decimal) decimal.Decimal {
	return Mul(amount, Div(percent, hundred))
}

// CeilUp rounds d towards positive infinity at the given number of places.
func CeilUp(d decimal.Decimal, places int32) decimal.Decimal {
	return d.RoundCeil(places)
}

// Format renders d with exactly places fractional digits and a '.' separator.
func Format(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
