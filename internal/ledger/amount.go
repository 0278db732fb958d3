package ledger

import "github.com/shopspring/decimal"

// Places is the number of decimal places every amount is quantized to.
const Places = 2

// Epsilon is the smallest amount treated as non-zero.
var Epsilon = decimal.New(1, -Places)

// Quantize rounds x to the nearest cent, half away from zero.
func Quantize(x decimal.Decimal) decimal.Decimal {
	return x.Round(Places)
}

// QuantizeFloat converts a binary float amount to a quantized decimal.
func QuantizeFloat(f float64) decimal.Decimal {
	return Quantize(decimal.NewFromFloat(f))
}

// FromCents builds an amount from an integer number of cents.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -Places)
}

// Cents returns x as an integer number of cents after quantization.
func Cents(x decimal.Decimal) int64 {
	return Quantize(x).Shift(Places).IntPart()
}

// IsNegligible reports whether |x| is below Epsilon.
func IsNegligible(x decimal.Decimal) bool {
	return x.Abs().LessThan(Epsilon)
}

// Sum adds up the amounts of the given balances.
func Sum(balances []Balance) decimal.Decimal {
	total := decimal.Zero
	for _, b := range balances {
		total = total.Add(b.Amount)
	}
	return total
}
