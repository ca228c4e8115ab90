package service_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

func day(y int, m int, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func dayPtr(y int, m int, d int) *civil.Date {
	v := day(y, m, d)
	return &v
}

func intPtr(v int) *int { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func repayment(id string, date civil.Date, principal, interest, fees string) model.Repayment {
	p, i, f := dec(principal), dec(interest), dec(fees)
	return model.Repayment{
		RepaymentID:   id,
		LoanID:        "loan-001",
		PaymentDate:   date,
		PrincipalPaid: p,
		InterestPaid:  i,
		FeesPaid:      f,
		PaymentAmount: p.Add(i).Add(f),
	}
}

// standardTerms is a 30-day loan of 1000 at 15% with a 50 fee, disbursed on
// Monday 2024-01-01 with its first installment due the next day.
func standardTerms() model.LoanTerms {
	return model.LoanTerms{
		LoanID:              "loan-001",
		Principal:           dec("1000"),
		InterestRate:        dec("0.15"),
		FeeAmount:           dec("50"),
		TermDays:            30,
		DisbursementDate:    dayPtr(2024, 1, 1),
		MaturityDate:        dayPtr(2024, 2, 9),
		FirstPaymentDueDate: dayPtr(2024, 1, 2),
	}
}

// standardRepayments total 500 principal, 75 interest and 50 fees, plus one
// reversed payment that must be ignored.
func standardRepayments() []model.Repayment {
	reversed := repayment("rep-003", day(2024, 1, 20), "100", "0", "0")
	reversed.Reversed = true
	return []model.Repayment{
		repayment("rep-001", day(2024, 1, 2), "250", "37.5", "50"),
		repayment("rep-002", day(2024, 1, 12), "250", "37.5", "0"),
		reversed,
	}
}
