package service

import (
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

// Balances is the reconciled position of a loan against its terms.
type Balances struct {
	RepaymentAmount      decimal.Decimal
	DailyRepaymentAmount decimal.Decimal

	PrincipalOutstanding decimal.Decimal
	InterestOutstanding  decimal.Decimal
	FeesOutstanding      decimal.Decimal
	TotalOutstanding     decimal.Decimal

	RepaymentDaysDueToday int
	ActualOutstanding     decimal.Decimal
	// RepaymentDaysPaid is invalid when the loan has no daily installment.
	RepaymentDaysPaid decimal.NullDecimal
}

// ReconcileBalances derives contractual and schedule-based outstanding
// amounts. businessDaysElapsed is the inclusive business-day count from
// disbursement to the evaluation date; it is capped at the term length to
// give the installments due so far.
//
// Schedule figures are taken as repaymentAmount × days / termDays, so paying
// exactly k installments yields exactly k days paid.
func ReconcileBalances(terms model.LoanTerms, agg model.RepaymentAggregate, businessDaysElapsed int) Balances {
	repaymentAmount := terms.Principal.Mul(decimal.NewFromInt(1).Add(terms.InterestRate)).Add(terms.FeeAmount)
	contractInterest := terms.Principal.Mul(terms.InterestRate)

	b := Balances{
		RepaymentAmount:      repaymentAmount,
		DailyRepaymentAmount: decimal.Zero,
		PrincipalOutstanding: terms.Principal.Sub(agg.TotalPrincipalPaid),
		InterestOutstanding:  decimal.Max(decimal.Zero, contractInterest.Sub(agg.TotalInterestPaid)),
		FeesOutstanding:      decimal.Max(decimal.Zero, terms.FeeAmount.Sub(agg.TotalFeesPaid)),
		ActualOutstanding:    decimal.Zero,
	}
	b.TotalOutstanding = b.PrincipalOutstanding.Add(b.InterestOutstanding).Add(b.FeesOutstanding)

	if terms.TermDays <= 0 {
		return b
	}

	termDays := decimal.NewFromInt(int64(terms.TermDays))
	b.DailyRepaymentAmount = repaymentAmount.Div(termDays)
	b.RepaymentDaysDueToday = min(max(businessDaysElapsed, 0), terms.TermDays)

	expected := repaymentAmount.Mul(decimal.NewFromInt(int64(b.RepaymentDaysDueToday))).Div(termDays)
	b.ActualOutstanding = decimal.Max(decimal.Zero, expected.Sub(agg.TotalRepayments))

	if b.DailyRepaymentAmount.IsPositive() {
		b.RepaymentDaysPaid = decimal.NewNullDecimal(agg.TotalRepayments.Mul(termDays).Div(repaymentAmount))
	}

	return b
}
