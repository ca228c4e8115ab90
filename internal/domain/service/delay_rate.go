package service

import "github.com/shopspring/decimal"

// delayThreshold calibrates the delay rate against a delay of 25% of the
// loan's age. Existing scored data depends on this exact value.
var delayThreshold = decimal.RequireFromString("0.25")

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// ScoreDelayRate returns the repayment delay rate as a percentage where
// higher is healthier. It is not clamped and may be negative.
//
// A nil or negative loanAge means the disbursement date is unknown or lies
// after the evaluation date; the rate is then invalid rather than zero.
func ScoreDelayRate(loanAge *int, currentDPD int, daysSinceLastRepayment *int) decimal.NullDecimal {
	if loanAge == nil || *loanAge < 0 {
		return decimal.NullDecimal{}
	}
	if *loanAge == 0 {
		return decimal.NewNullDecimal(decimal.Zero)
	}

	age := decimal.NewFromInt(int64(*loanAge))
	delay := decimal.NewFromInt(int64(currentDPD))
	if daysSinceLastRepayment != nil {
		delay = decimal.NewFromInt(int64(*daysSinceLastRepayment + currentDPD)).Div(two)
	}

	ratio := delay.Div(age).Div(delayThreshold)
	rate := decimal.NewFromInt(1).Sub(ratio).Mul(hundred).Round(2)
	return decimal.NewNullDecimal(rate)
}
