package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/valueobject"
)

// MetricsSnapshot is the full set of derived metrics for one loan as of one
// date. Snapshots are always recomputed whole; nothing updates them in place.
type MetricsSnapshot struct {
	LoanID   string     `json:"loan_id"`
	AsOfDate civil.Date `json:"as_of_date"`

	// Repayment totals.
	TotalPrincipalPaid       decimal.Decimal `json:"total_principal_paid"`
	TotalInterestPaid        decimal.Decimal `json:"total_interest_paid"`
	TotalFeesPaid            decimal.Decimal `json:"total_fees_paid"`
	TotalRepayments          decimal.Decimal `json:"total_repayments"`
	RepaymentCount           int             `json:"repayment_count"`
	FirstPaymentReceivedDate *civil.Date     `json:"first_payment_received_date,omitempty"`
	LastRepaymentDate        *civil.Date     `json:"last_repayment_date,omitempty"`

	// Balances.
	RepaymentAmount       decimal.Decimal     `json:"repayment_amount"`
	DailyRepaymentAmount  decimal.Decimal     `json:"daily_repayment_amount"`
	PrincipalOutstanding  decimal.Decimal     `json:"principal_outstanding"`
	InterestOutstanding   decimal.Decimal     `json:"interest_outstanding"`
	FeesOutstanding       decimal.Decimal     `json:"fees_outstanding"`
	TotalOutstanding      decimal.Decimal     `json:"total_outstanding"`
	ActualOutstanding     decimal.Decimal     `json:"actual_outstanding"`
	RepaymentDaysDueToday int                 `json:"repayment_days_due_today"`
	RepaymentDaysPaid     decimal.NullDecimal `json:"repayment_days_paid"`

	// Delinquency.
	CurrentDPD           int                   `json:"current_dpd"`
	MaxDPDEver           int                   `json:"max_dpd_ever"`
	DPDBucket            valueobject.DPDBucket `json:"dpd_bucket"`
	FIMRTagged           bool                  `json:"fimr_tagged"`
	EarlyIndicatorTagged bool                  `json:"early_indicator_tagged"`
	FirstPaymentMissed   bool                  `json:"first_payment_missed"`

	// Time since events. Nil means the anchoring date is unknown.
	LoanAge                       *int `json:"loan_age,omitempty"`
	BusinessDaysSinceDisbursement int  `json:"business_days_since_disbursement"`
	RealLoanTenureDays            int  `json:"real_loan_tenure_days"`
	DaysSinceLastRepayment        *int `json:"days_since_last_repayment,omitempty"`
	DaysSinceDue                  *int `json:"days_since_due,omitempty"`

	// Scores.
	RepaymentDelayRate decimal.NullDecimal      `json:"repayment_delay_rate"`
	RiskScore          int                      `json:"risk_score"`
	RiskCategory       valueobject.RiskCategory `json:"risk_category"`
}
