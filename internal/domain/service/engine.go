package service

import (
	"cloud.google.com/go/civil"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/valueobject"
)

// MetricsEngine assembles metrics snapshots from loan terms and repayments.
// It holds no state and performs no I/O; it is safe for concurrent use.
type MetricsEngine struct{}

// NewMetricsEngine creates a new MetricsEngine.
func NewMetricsEngine() *MetricsEngine {
	return &MetricsEngine{}
}

// ComputeSnapshot evaluates one loan as of asOf. Repayments may be empty or
// in any order; those dated after asOf are ignored. It fails only with
// model.ErrMissingLoanTerms when terms is nil.
func (e *MetricsEngine) ComputeSnapshot(
	terms *model.LoanTerms,
	repayments []model.Repayment,
	asOf civil.Date,
) (model.MetricsSnapshot, error) {
	if terms == nil {
		return model.MetricsSnapshot{}, model.ErrMissingLoanTerms
	}

	repayments = repaymentsThrough(repayments, asOf)
	agg := AggregateRepayments(repayments)

	businessDays := BusinessDaysBetween(terms.DisbursementDate, &asOf)
	bal := ReconcileBalances(*terms, agg, businessDays)
	dq := ClassifyDelinquency(*terms, agg, bal, asOf)

	loanAge := daysBetween(terms.DisbursementDate, asOf)
	sinceLastRepayment := daysBetween(agg.LastRepaymentDate, asOf)
	delayRate := ScoreDelayRate(loanAge, dq.CurrentDPD, sinceLastRepayment)

	maxDPD := max(dq.CurrentDPD, MaxDPDEver(*terms, repayments, asOf))

	riskScore, riskCategory := ScoreLoanRisk(RiskInput{
		CurrentDPD:       dq.CurrentDPD,
		MaxDPDEver:       maxDPD,
		TotalOutstanding: bal.TotalOutstanding,
		FIMRTagged:       dq.FIMRTagged,
		LoanAge:          loanAge,
	})

	return model.MetricsSnapshot{
		LoanID:   terms.LoanID,
		AsOfDate: asOf,

		TotalPrincipalPaid:       agg.TotalPrincipalPaid,
		TotalInterestPaid:        agg.TotalInterestPaid,
		TotalFeesPaid:            agg.TotalFeesPaid,
		TotalRepayments:          agg.TotalRepayments,
		RepaymentCount:           agg.Count,
		FirstPaymentReceivedDate: agg.FirstRepaymentDate,
		LastRepaymentDate:        agg.LastRepaymentDate,

		RepaymentAmount:       bal.RepaymentAmount,
		DailyRepaymentAmount:  bal.DailyRepaymentAmount,
		PrincipalOutstanding:  bal.PrincipalOutstanding,
		InterestOutstanding:   bal.InterestOutstanding,
		FeesOutstanding:       bal.FeesOutstanding,
		TotalOutstanding:      bal.TotalOutstanding,
		ActualOutstanding:     bal.ActualOutstanding,
		RepaymentDaysDueToday: bal.RepaymentDaysDueToday,
		RepaymentDaysPaid:     bal.RepaymentDaysPaid,

		CurrentDPD:           dq.CurrentDPD,
		MaxDPDEver:           maxDPD,
		DPDBucket:            valueobject.DPDBucketFor(dq.CurrentDPD),
		FIMRTagged:           dq.FIMRTagged,
		EarlyIndicatorTagged: dq.EarlyIndicatorTagged,
		FirstPaymentMissed:   dq.FirstPaymentMissed,

		LoanAge:                       loanAge,
		BusinessDaysSinceDisbursement: businessDays,
		RealLoanTenureDays:            BusinessDaysBetween(terms.DisbursementDate, terms.MaturityDate),
		DaysSinceLastRepayment:        sinceLastRepayment,
		DaysSinceDue:                  daysSinceDue(terms.FirstPaymentDueDate, asOf),

		RepaymentDelayRate: delayRate,
		RiskScore:          riskScore,
		RiskCategory:       riskCategory,
	}, nil
}

func daysSinceDue(due *civil.Date, asOf civil.Date) *int {
	days := daysBetween(due, asOf)
	if days != nil && *days < 0 {
		zero := 0
		return &zero
	}
	return days
}

// repaymentsThrough returns the repayments dated on or before asOf.
func repaymentsThrough(repayments []model.Repayment, asOf civil.Date) []model.Repayment {
	out := make([]model.Repayment, 0, len(repayments))
	for _, r := range repayments {
		if !r.PaymentDate.After(asOf) {
			out = append(out, r)
		}
	}
	return out
}
