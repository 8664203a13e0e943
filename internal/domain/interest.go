package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// ComputeInterest returns floor(balance * ratePercent / 100). Non-positive
// balances and rates earn nothing. The division is a decimal shift so no
// rounding happens before the floor.
func ComputeInterest(balance int64, ratePercent decimal.Decimal) int64 {
	if balance <= 0 || !ratePercent.IsPositive() {
		return 0
	}

	credit := decimal.NewFromInt(balance).Mul(ratePercent).Shift(-2).Floor()
	if !credit.IsPositive() {
		return 0
	}

	return credit.IntPart()
}

// ValidateRate checks an interest rate expressed in percent.
func ValidateRate(ratePercent decimal.Decimal) error {
	if !ratePercent.IsPositive() {
		return ErrInvalidRate
	}

	if ratePercent.GreaterThan(hundred) {
		return ErrInvalidRate
	}

	return nil
}
