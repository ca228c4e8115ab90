package dto

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// ComputeSnapshotRequest asks for one loan to be evaluated and stored.
// A nil AsOf evaluates as of today.
type ComputeSnapshotRequest struct {
	LoanID string      `json:"loan_id"`
	AsOf   *civil.Date `json:"as_of,omitempty"`
}

// GetSnapshotRequest identifies a stored snapshot. A nil AsOf selects the
// most recent one.
type GetSnapshotRequest struct {
	LoanID string      `json:"loan_id"`
	AsOf   *civil.Date `json:"as_of,omitempty"`
}

// LoanTermsInput carries caller-supplied origination terms.
type LoanTermsInput struct {
	LoanID              string          `json:"loan_id"`
	Principal           decimal.Decimal `json:"principal"`
	InterestRate        decimal.Decimal `json:"interest_rate"`
	FeeAmount           decimal.Decimal `json:"fee_amount"`
	TermDays            int             `json:"term_days"`
	DisbursementDate    *civil.Date     `json:"disbursement_date,omitempty"`
	MaturityDate        *civil.Date     `json:"maturity_date,omitempty"`
	FirstPaymentDueDate *civil.Date     `json:"first_payment_due_date,omitempty"`
}

// RepaymentInput carries one caller-supplied repayment.
type RepaymentInput struct {
	RepaymentID   string          `json:"repayment_id"`
	PaymentDate   civil.Date      `json:"payment_date"`
	PrincipalPaid decimal.Decimal `json:"principal_paid"`
	InterestPaid  decimal.Decimal `json:"interest_paid"`
	FeesPaid      decimal.Decimal `json:"fees_paid"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	Reversed      bool            `json:"reversed"`
}

// PreviewSnapshotRequest evaluates supplied data without touching storage.
type PreviewSnapshotRequest struct {
	Terms      *LoanTermsInput  `json:"terms"`
	Repayments []RepaymentInput `json:"repayments"`
	AsOf       *civil.Date      `json:"as_of,omitempty"`
}

// RecomputePortfolioRequest asks for every active loan to be re-evaluated as
// of one date.
type RecomputePortfolioRequest struct {
	AsOf                *civil.Date `json:"as_of,omitempty"`
	DisbursedOnOrBefore *civil.Date `json:"disbursed_on_or_before,omitempty"`
	Limit               int         `json:"limit,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// SnapshotResponse is the external representation of a metrics snapshot.
type SnapshotResponse struct {
	LoanID   string     `json:"loan_id"`
	AsOfDate civil.Date `json:"as_of_date"`

	TotalPrincipalPaid       decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid        decimal.Decimal `json:"total_interest_paid"`
	TotalFeesPaid            decimal.Decimal `json:"total_fees_paid"`
	TotalRepayments          decimal.Decimal `json:"total_repayments"`
	RepaymentCount           int             `json:"repayment_count"`
	FirstPaymentReceivedDate *civil.Date     `json:"first_payment_received_date,omitempty"`
	LastRepaymentDate        *civil.Date     `json:"last_repayment_date,omitempty"`

	RepaymentAmount       decimal.Decimal     `json:"repayment_amount"`
	DailyRepaymentAmount  decimal.Decimal     `json:"daily_repayment_amount"`
	PrincipalOutstanding  decimal.Decimal     `json:"principal_outstanding"`
	InterestOutstanding   decimal.Decimal     `json:"interest_outstanding"`
	FeesOutstanding       decimal.Decimal     `json:"fees_outstanding"`
	TotalOutstanding      decimal.Decimal     `json:"total_outstanding"`
	ActualOutstanding     decimal.Decimal     `json:"actual_outstanding"`
	RepaymentDaysDueToday int                 `json:"repayment_days_due_today"`
	RepaymentDaysPaid     decimal.NullDecimal `json:"repayment_days_paid"`

	CurrentDPD           int    `json:"current_dpd"`
	MaxDPDEver           int    `json:"max_dpd_ever"`
	DPDBucket            string `json:"dpd_bucket"`
	FIMRTagged           bool   `json:"fimr_tagged"`
	EarlyIndicatorTagged bool   `json:"early_indicator_tagged"`
	FirstPaymentMissed   bool   `json:"first_payment_missed"`

	LoanAge                       *int `json:"loan_age,omitempty"`
	BusinessDaysSinceDisbursement int  `json:"business_days_since_disbursement"`
	RealLoanTenureDays            int  `json:"real_loan_tenure_days"`
	DaysSinceLastRepayment        *int `json:"days_since_last_repayment,omitempty"`
	DaysSinceDue                  *int `json:"days_since_due,omitempty"`

	RepaymentDelayRate decimal.NullDecimal `json:"repayment_delay_rate"`
	RiskScore          int                 `json:"risk_score"`
	RiskCategory       string              `json:"risk_category"`

	// RollDirection compares against the previous stored snapshot and is only
	// set when a snapshot is computed and stored.
	RollDirection string `json:"roll_direction,omitempty"`
}

// LoanFailure describes why one loan in a batch could not be evaluated.
type LoanFailure struct {
	LoanID string `json:"loan_id"`
	Error  string `json:"error"`
}

// RecomputePortfolioResponse summarises a batch run.
type RecomputePortfolioResponse struct {
	AsOfDate     civil.Date    `json:"as_of_date"`
	Processed    int           `json:"processed"`
	Succeeded    int           `json:"succeeded"`
	Failed       int           `json:"failed"`
	MissingTerms int           `json:"missing_terms"`
	Cancelled    bool          `json:"cancelled"`
	Failures     []LoanFailure `json:"failures,omitempty"`
}
