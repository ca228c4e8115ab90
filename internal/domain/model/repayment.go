package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Repayment is a single payment event recorded against a loan.
type Repayment struct {
	RepaymentID   string
	LoanID        string
	PaymentDate   civil.Date
	PrincipalPaid decimal.Decimal
	InterestPaid  decimal.Decimal
	FeesPaid      decimal.Decimal
	PaymentAmount decimal.Decimal
	Reversed      bool
}

// RepaymentAggregate summarises the non-reversed repayments of one loan.
type RepaymentAggregate struct {
	TotalPrincipalPaid decimal.Decimal
	TotalInterestPaid  decimal.Decimal
	TotalFeesPaid      decimal.Decimal
	TotalRepayments    decimal.Decimal
	FirstRepaymentDate *civil.Date
	LastRepaymentDate  *civil.Date
	Count              int
}
