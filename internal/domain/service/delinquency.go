package service

import (
	"sort"

	"cloud.google.com/go/civil"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

const earlyIndicatorMaxDPD = 6

// Delinquency holds the arrears tags of a loan at one evaluation date.
type Delinquency struct {
	CurrentDPD           int
	EarlyIndicatorTagged bool
	FIMRTagged           bool
	FirstPaymentMissed   bool
}

// ClassifyDelinquency derives days past due and the first-payment tags.
func ClassifyDelinquency(
	terms model.LoanTerms,
	agg model.RepaymentAggregate,
	bal Balances,
	asOf civil.Date,
) Delinquency {
	dpd := DaysPastDue(bal)
	return Delinquency{
		CurrentDPD:           dpd,
		EarlyIndicatorTagged: dpd >= 1 && dpd <= earlyIndicatorMaxDPD,
		FIMRTagged:           fimrTagged(terms.FirstPaymentDueDate, agg.FirstRepaymentDate, asOf),
		FirstPaymentMissed:   firstPaymentMissed(terms.FirstPaymentDueDate, agg.FirstRepaymentDate),
	}
}

// DaysPastDue is the count of installments due but not covered by
// repayments. A loan paid up to date has zero DPD however old it is.
func DaysPastDue(bal Balances) int {
	if !bal.ActualOutstanding.IsPositive() {
		return 0
	}

	var daysPaid int
	if bal.RepaymentDaysPaid.Valid {
		daysPaid = int(bal.RepaymentDaysPaid.Decimal.Floor().IntPart())
	}
	return max(0, bal.RepaymentDaysDueToday-daysPaid)
}

func fimrTagged(due, firstPaid *civil.Date, asOf civil.Date) bool {
	switch {
	case due == nil:
		return true
	case firstPaid != nil && !firstPaid.After(*due):
		return false
	case firstPaid == nil && !due.Before(asOf):
		return false
	default:
		return true
	}
}

func firstPaymentMissed(due, firstPaid *civil.Date) bool {
	if firstPaid == nil {
		return true
	}
	return due != nil && firstPaid.After(*due)
}

// MaxDPDEver returns the highest DPD the loan reached on or before asOf.
//
// Between two repayments the paid total is fixed while installments keep
// falling due, so DPD can only peak on the day before a repayment or on the
// evaluation date itself. Those are the only dates replayed.
func MaxDPDEver(terms model.LoanTerms, repayments []model.Repayment, asOf civil.Date) int {
	if terms.DisbursementDate == nil {
		return 0
	}

	paid := make([]model.Repayment, 0, len(repayments))
	for _, r := range repaymentsThrough(repayments, asOf) {
		if !r.Reversed {
			paid = append(paid, r)
		}
	}
	sort.SliceStable(paid, func(i, j int) bool {
		return paid[i].PaymentDate.Before(paid[j].PaymentDate)
	})

	peak := 0
	for i, r := range paid {
		if i > 0 && paid[i-1].PaymentDate == r.PaymentDate {
			continue
		}
		eve := r.PaymentDate.AddDays(-1)
		if eve.Before(*terms.DisbursementDate) {
			continue
		}
		peak = max(peak, dpdOn(terms, paid[:i], eve))
	}

	return max(peak, dpdOn(terms, paid, asOf))
}

func dpdOn(terms model.LoanTerms, repayments []model.Repayment, day civil.Date) int {
	agg := AggregateRepayments(repayments)
	bal := ReconcileBalances(terms, agg, BusinessDaysBetween(terms.DisbursementDate, &day))
	return DaysPastDue(bal)
}
