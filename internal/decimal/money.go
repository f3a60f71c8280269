package decimal

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

var hundred = decimal.NewFromInt(100)

// UnitPricePlaces is the precision of unit prices derived from gross values,
// independent of the currency
const UnitPricePlaces = 2

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// RoundPrice rounds to exp decimal digits, half away from zero.
// exp < 1 rounds to whole units.
func RoundPrice(d decimal.Decimal, exp int32) decimal.Decimal {
	if exp < 1 {
		return d.Round(0)
	}
	return d.Round(exp)
}

// PercentOf computes amount * percent / 100 rounded with RoundPrice
func PercentOf(amount, percent decimal.Decimal, exp int32) decimal.Decimal {
	return RoundPrice(amount.Mul(percent).Div(hundred), exp)
}

// IncludedTax extracts the tax part of a gross amount:
// gross / (percent + 100) * percent, rounded with RoundPrice.
// The multiplication happens first so exact halves survive the division.
func IncludedTax(gross, percent decimal.Decimal, exp int32) decimal.Decimal {
	return RoundPrice(gross.Mul(percent).Div(percent.Add(hundred)), exp)
}

// UnitPrice divides a line value by its quantity at UnitPricePlaces precision.
// A zero quantity yields zero.
func UnitPrice(value, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return Zero
	}
	return value.Div(quantity).Round(UnitPricePlaces)
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// Format renders d in plain decimal notation, never scientific
func Format(d decimal.Decimal) string {
	return d.String()
}
