// Package money keeps every amount in integer minor units (cents) and only
// leaves that domain through decimal arithmetic with explicit rounding.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FromDecimal converts a currency-unit amount (e.g. 49.99) to cents, rounding
// half away from zero.
func FromDecimal(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// ToDecimal converts cents back to currency units.
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// MustParse parses a currency-unit literal such as "49.99" into cents.
func MustParse(amount string) int64 {
	return FromDecimal(decimal.RequireFromString(amount))
}

// Percent returns pct percent of cents, rounded half-up to the cent.
func Percent(cents int64, pct decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(pct).Div(hundred).Round(0).IntPart()
}

// ApplyRate returns cents × rate rounded half-up to the cent.
func ApplyRate(cents int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(cents).Mul(rate).Round(0).IntPart()
}

// Split divides total into parts equal shares. Any remainder lands on the
// last share so the shares always add back up to total.
func Split(total int64, parts int) ([]int64, error) {
	if parts < 1 {
		return nil, fmt.Errorf("money: cannot split into %d parts", parts)
	}
	if total < 0 {
		return nil, fmt.Errorf("money: cannot split negative amount %d", total)
	}
	share := total / int64(parts)
	out := make([]int64, parts)
	for i := range out {
		out[i] = share
	}
	out[parts-1] += total - share*int64(parts)
	return out, nil
}

// Sum adds the provided amounts.
func Sum(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}
	return total
}
