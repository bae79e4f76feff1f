package converter

import (
	"math"

	"github.com/shopspring/decimal"
)

// ResolveIncomeAmount picks the credit side of an income transaction, falling
// back to the debit side. NaN, infinite, zero and negative values count as
// absent; the result is 0 when neither side is usable.
func ResolveIncomeAmount(debit, credit float64) float64 {
	if usable(credit) {
		return credit
	}
	if usable(debit) {
		return debit
	}
	return 0
}

// ResolveExpenseAmount is the mirror of ResolveIncomeAmount: debit first.
func ResolveExpenseAmount(debit, credit float64) float64 {
	if usable(debit) {
		return debit
	}
	if usable(credit) {
		return credit
	}
	return 0
}

// RoundAmount rounds to whole yen, half-up (ties toward +Inf).
// Non-finite input rounds to 0.
func RoundAmount(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Add(decimal.NewFromFloat(0.5)).Floor().IntPart()
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
