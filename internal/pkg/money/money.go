// Package money holds arithmetic on amounts expressed in minor currency units.
package money

import "github.com/shopspring/decimal"

// Amount is a value in minor currency units (cents).
type Amount = int64

var hundred = decimal.NewFromInt(100)

// Round converts d to minor units, rounding half away from zero.
func Round(d decimal.Decimal) Amount {
	return d.Round(0).IntPart()
}

// Scale multiplies amount by factor.
func Scale(amount Amount, factor float64) Amount {
	return Round(decimal.NewFromInt(amount).Mul(decimal.NewFromFloat(factor)))
}

// ScaleFloat multiplies a fractional amount by factor.
func ScaleFloat(amount float64, factor float64) Amount {
	return Round(decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(factor)))
}

// ApplyPercent returns amount * (1 + pct/100).
func ApplyPercent(amount Amount, pct float64) Amount {
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(pct).Div(hundred))
	return Round(decimal.NewFromInt(amount).Mul(factor))
}

// AddFixed returns amount + value, where value is already in minor units.
func AddFixed(amount Amount, value float64) Amount {
	return Round(decimal.NewFromInt(amount).Add(decimal.NewFromFloat(value)))
}
