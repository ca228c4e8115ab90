package model

import (
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ErrMissingLoanTerms is returned when a loan has no origination terms to
// evaluate against.
var ErrMissingLoanTerms = errors.New("loan terms not found")

// ErrSnapshotNotFound is returned when no metrics snapshot exists for a loan.
var ErrSnapshotNotFound = errors.New("metrics snapshot not found")

// ---------------------------------------------------------------------------
// LoanTerms – origination terms of a loan
// ---------------------------------------------------------------------------

// LoanTerms holds the immutable origination terms the metrics are derived from.
// InterestRate is a fraction of the principal (0.15 means 15%) charged once
// over the life of the loan.
type LoanTerms struct {
	LoanID       string
	Principal    decimal.Decimal
	InterestRate decimal.Decimal
	FeeAmount    decimal.Decimal
	TermDays     int

	DisbursementDate    *civil.Date
	MaturityDate        *civil.Date
	FirstPaymentDueDate *civil.Date
}

// NewLoanTerms validates and builds loan terms.
func NewLoanTerms(
	loanID string,
	principal, interestRate, feeAmount decimal.Decimal,
	termDays int,
	disbursementDate, maturityDate, firstPaymentDueDate *civil.Date,
) (LoanTerms, error) {
	if loanID == "" {
		return LoanTerms{}, fmt.Errorf("loan ID is required")
	}
	if principal.IsNegative() {
		return LoanTerms{}, fmt.Errorf("principal must not be negative, got %s", principal)
	}
	if interestRate.IsNegative() {
		return LoanTerms{}, fmt.Errorf("interest rate must not be negative, got %s", interestRate)
	}
	if feeAmount.IsNegative() {
		return LoanTerms{}, fmt.Errorf("fee amount must not be negative, got %s", feeAmount)
	}
	if disbursementDate != nil && maturityDate != nil && maturityDate.Before(*disbursementDate) {
		return LoanTerms{}, fmt.Errorf("maturity date %s precedes disbursement date %s", maturityDate, disbursementDate)
	}

	return LoanTerms{
		LoanID:              loanID,
		Principal:           principal,
		InterestRate:        interestRate,
		FeeAmount:           feeAmount,
		TermDays:            termDays,
		DisbursementDate:    disbursementDate,
		MaturityDate:        maturityDate,
		FirstPaymentDueDate: firstPaymentDueDate,
	}, nil
}

// LoanIDFilter narrows the set of loans selected for a portfolio recompute.
type LoanIDFilter struct {
	// DisbursedOnOrBefore excludes loans disbursed after the given date.
	DisbursedOnOrBefore *civil.Date
	// Limit caps the number of IDs returned; zero means no limit.
	Limit int
}
