package service_test

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
)

func TestDaysPastDue(t *testing.T) {
	tests := []struct {
		name string
		bal  service.Balances
		want int
	}{
		{
			name: "paid up to date",
			bal: service.Balances{
				RepaymentDaysDueToday: 10,
				ActualOutstanding:     decimal.Zero,
				RepaymentDaysPaid:     decimal.NewNullDecimal(dec("10")),
			},
			want: 0,
		},
		{
			name: "fractional days paid are floored",
			bal: service.Balances{
				RepaymentDaysDueToday: 20,
				ActualOutstanding:     dec("175"),
				RepaymentDaysPaid:     decimal.NewNullDecimal(dec("15.625")),
			},
			want: 5,
		},
		{
			name: "nothing paid",
			bal: service.Balances{
				RepaymentDaysDueToday: 7,
				ActualOutstanding:     dec("280"),
				RepaymentDaysPaid:     decimal.NewNullDecimal(decimal.Zero),
			},
			want: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.DaysPastDue(tt.bal))
		})
	}
}

func TestClassifyDelinquency_FirstPaymentTags(t *testing.T) {
	asOf := day(2024, 3, 1)

	tests := []struct {
		name       string
		due        *civil.Date
		firstPaid  *civil.Date
		wantFIMR   bool
		wantMissed bool
	}{
		{name: "no due date with repayment", due: nil, firstPaid: dayPtr(2024, 1, 2), wantFIMR: true, wantMissed: false},
		{name: "no due date without repayment", due: nil, firstPaid: nil, wantFIMR: true, wantMissed: true},
		{name: "paid on due date", due: dayPtr(2024, 2, 1), firstPaid: dayPtr(2024, 2, 1), wantFIMR: false, wantMissed: false},
		{name: "paid before due date", due: dayPtr(2024, 2, 1), firstPaid: dayPtr(2024, 1, 20), wantFIMR: false, wantMissed: false},
		{name: "paid one day late", due: dayPtr(2024, 2, 1), firstPaid: dayPtr(2024, 2, 2), wantFIMR: true, wantMissed: true},
		{name: "not yet due", due: dayPtr(2024, 3, 5), firstPaid: nil, wantFIMR: false, wantMissed: true},
		{name: "due on evaluation date", due: dayPtr(2024, 3, 1), firstPaid: nil, wantFIMR: false, wantMissed: true},
		{name: "due date passed unpaid", due: dayPtr(2024, 2, 1), firstPaid: nil, wantFIMR: true, wantMissed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms := standardTerms()
			terms.FirstPaymentDueDate = tt.due
			agg := model.RepaymentAggregate{FirstRepaymentDate: tt.firstPaid}

			dq := service.ClassifyDelinquency(terms, agg, service.Balances{}, asOf)

			assert.Equal(t, tt.wantFIMR, dq.FIMRTagged, "fimr")
			assert.Equal(t, tt.wantMissed, dq.FirstPaymentMissed, "first payment missed")
		})
	}
}

func TestClassifyDelinquency_EarlyIndicator(t *testing.T) {
	for dpd, want := range map[int]bool{0: false, 1: true, 6: true, 7: false, 30: false} {
		bal := service.Balances{
			RepaymentDaysDueToday: dpd,
			ActualOutstanding:     dec("1"),
			RepaymentDaysPaid:     decimal.NewNullDecimal(decimal.Zero),
		}
		if dpd == 0 {
			bal.ActualOutstanding = decimal.Zero
		}

		dq := service.ClassifyDelinquency(standardTerms(), model.RepaymentAggregate{}, bal, day(2024, 3, 1))

		assert.Equal(t, dpd, dq.CurrentDPD)
		assert.Equal(t, want, dq.EarlyIndicatorTagged, "dpd %d", dpd)
	}
}

func TestMaxDPDEver(t *testing.T) {
	// 1000 at 20% over 30 days: 40 per installment.
	terms := model.LoanTerms{
		LoanID:           "loan-002",
		Principal:        dec("1000"),
		InterestRate:     dec("0.2"),
		FeeAmount:        dec("0"),
		TermDays:         30,
		DisbursementDate: dayPtr(2024, 1, 1),
	}

	t.Run("peak before a catch-up payment", func(t *testing.T) {
		reps := []model.Repayment{repayment("rep-1", day(2024, 1, 15), "400", "0", "0")}

		// Ten installments due by Sunday the 14th with nothing paid; on
		// Friday the 19th 15 are due and 10 are covered.
		assert.Equal(t, 10, service.MaxDPDEver(terms, reps, day(2024, 1, 19)))
	})

	t.Run("repayments after the evaluation date are ignored", func(t *testing.T) {
		reps := []model.Repayment{repayment("rep-1", day(2024, 1, 15), "400", "0", "0")}

		assert.Equal(t, 5, service.MaxDPDEver(terms, reps, day(2024, 1, 5)))
	})

	t.Run("payment on disbursement day", func(t *testing.T) {
		reps := []model.Repayment{repayment("rep-1", day(2024, 1, 1), "1200", "0", "0")}

		assert.Zero(t, service.MaxDPDEver(terms, reps, day(2024, 1, 31)))
	})

	t.Run("unknown disbursement date", func(t *testing.T) {
		noDate := terms
		noDate.DisbursementDate = nil

		assert.Zero(t, service.MaxDPDEver(noDate, nil, day(2024, 1, 31)))
	})
}
