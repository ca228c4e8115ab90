package service

import (
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

// AggregateRepayments sums the non-reversed repayments of a loan and records
// the earliest and latest payment dates among them. Input order does not
// matter.
func AggregateRepayments(repayments []model.Repayment) model.RepaymentAggregate {
	agg := model.RepaymentAggregate{
		TotalPrincipalPaid: decimal.Zero,
		TotalInterestPaid:  decimal.Zero,
		TotalFeesPaid:      decimal.Zero,
		TotalRepayments:    decimal.Zero,
	}

	for _, r := range repayments {
		if r.Reversed {
			continue
		}

		agg.TotalPrincipalPaid = agg.TotalPrincipalPaid.Add(r.PrincipalPaid)
		agg.TotalInterestPaid = agg.TotalInterestPaid.Add(r.InterestPaid)
		agg.TotalFeesPaid = agg.TotalFeesPaid.Add(r.FeesPaid)
		agg.TotalRepayments = agg.TotalRepayments.Add(r.PaymentAmount)
		agg.Count++

		paid := r.PaymentDate
		if agg.FirstRepaymentDate == nil || paid.Before(*agg.FirstRepaymentDate) {
			first := paid
			agg.FirstRepaymentDate = &first
		}
		if agg.LastRepaymentDate == nil || paid.After(*agg.LastRepaymentDate) {
			last := paid
			agg.LastRepaymentDate = &last
		}
	}

	return agg
}
