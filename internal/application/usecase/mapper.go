package usecase

import (
	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

func toSnapshotResponse(s model.MetricsSnapshot) dto.SnapshotResponse {
	return dto.SnapshotResponse{
		LoanID:   s.LoanID,
		AsOfDate: s.AsOfDate,

		TotalPrincipalPaid:       s.TotalPrincipalPaid,
		TotalInterestPaid:        s.TotalInterestPaid,
		TotalFeesPaid:            s.TotalFeesPaid,
		TotalRepayments:          s.TotalRepayments,
		RepaymentCount:           s.RepaymentCount,
		FirstPaymentReceivedDate: s.FirstPaymentReceivedDate,
		LastRepaymentDate:        s.LastRepaymentDate,

		RepaymentAmount:       s.RepaymentAmount,
		DailyRepaymentAmount:  s.DailyRepaymentAmount,
		PrincipalOutstanding:  s.PrincipalOutstanding,
		InterestOutstanding:   s.InterestOutstanding,
		FeesOutstanding:       s.FeesOutstanding,
		TotalOutstanding:      s.TotalOutstanding,
		ActualOutstanding:     s.ActualOutstanding,
		RepaymentDaysDueToday: s.RepaymentDaysDueToday,
		RepaymentDaysPaid:     s.RepaymentDaysPaid,

		CurrentDPD:           s.CurrentDPD,
		MaxDPDEver:           s.MaxDPDEver,
		DPDBucket:            s.DPDBucket.String(),
		FIMRTagged:           s.FIMRTagged,
		EarlyIndicatorTagged: s.EarlyIndicatorTagged,
		FirstPaymentMissed:   s.FirstPaymentMissed,

		LoanAge:                       s.LoanAge,
		BusinessDaysSinceDisbursement: s.BusinessDaysSinceDisbursement,
		RealLoanTenureDays:            s.RealLoanTenureDays,
		DaysSinceLastRepayment:        s.DaysSinceLastRepayment,
		DaysSinceDue:                  s.DaysSinceDue,

		RepaymentDelayRate: s.RepaymentDelayRate,
		RiskScore:          s.RiskScore,
		RiskCategory:       s.RiskCategory.String(),
	}
}

func toLoanTerms(in dto.LoanTermsInput) (model.LoanTerms, error) {
	return model.NewLoanTerms(
		in.LoanID,
		in.Principal, in.InterestRate, in.FeeAmount,
		in.TermDays,
		in.DisbursementDate, in.MaturityDate, in.FirstPaymentDueDate,
	)
}

func toRepayments(loanID string, in []dto.RepaymentInput) []model.Repayment {
	out := make([]model.Repayment, len(in))
	for i, r := range in {
		amount := r.PaymentAmount
		if amount.IsZero() {
			amount = r.PrincipalPaid.Add(r.InterestPaid).Add(r.FeesPaid)
		}
		out[i] = model.Repayment{
			RepaymentID:   r.RepaymentID,
			LoanID:        loanID,
			PaymentDate:   r.PaymentDate,
			PrincipalPaid: r.PrincipalPaid,
			InterestPaid:  r.InterestPaid,
			FeesPaid:      r.FeesPaid,
			PaymentAmount: amount,
			Reversed:      r.Reversed,
		}
	}
	return out
}
