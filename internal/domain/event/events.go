package event

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateLoan = "Loan"

// Event type names as published on the wire.
const (
	TypeSnapshotComputed   = "loanmetrics.snapshot.computed"
	TypeDelinquencyChanged = "loanmetrics.loan.delinquency_changed"
	TypeFirstPaymentMissed = "loanmetrics.loan.fimr_tagged"
)

// ---------------------------------------------------------------------------
// Snapshot Events
// ---------------------------------------------------------------------------

// SnapshotComputed is raised every time a loan's metrics are recomputed and
// stored.
type SnapshotComputed struct {
	events.BaseEvent
	AsOfDate          civil.Date      `json:"as_of_date"`
	CurrentDPD        int             `json:"current_dpd"`
	TotalOutstanding  decimal.Decimal `json:"total_outstanding"`
	ActualOutstanding decimal.Decimal `json:"actual_outstanding"`
	RiskScore         int             `json:"risk_score"`
	RiskCategory      string          `json:"risk_category"`
	RollDirection     string          `json:"roll_direction,omitempty"`
}

func NewSnapshotComputed(
	loanID string, asOf civil.Date,
	currentDPD int, totalOutstanding, actualOutstanding decimal.Decimal,
	riskScore int, riskCategory, rollDirection string,
	at time.Time,
) SnapshotComputed {
	return SnapshotComputed{
		BaseEvent:         events.NewBaseEvent(TypeSnapshotComputed, loanID, aggregateLoan, at),
		AsOfDate:          asOf,
		CurrentDPD:        currentDPD,
		TotalOutstanding:  totalOutstanding,
		ActualOutstanding: actualOutstanding,
		RiskScore:         riskScore,
		RiskCategory:      riskCategory,
		RollDirection:     rollDirection,
	}
}

// ---------------------------------------------------------------------------
// Delinquency Events
// ---------------------------------------------------------------------------

// DelinquencyChanged is raised when a loan moves between DPD buckets.
type DelinquencyChanged struct {
	events.BaseEvent
	AsOfDate       civil.Date `json:"as_of_date"`
	PreviousBucket string     `json:"previous_bucket"`
	CurrentBucket  string     `json:"current_bucket"`
	PreviousDPD    int        `json:"previous_dpd"`
	CurrentDPD     int        `json:"current_dpd"`
	RollDirection  string     `json:"roll_direction"`
}

func NewDelinquencyChanged(
	loanID string, asOf civil.Date,
	previousBucket, currentBucket string,
	previousDPD, currentDPD int,
	rollDirection string,
	at time.Time,
) DelinquencyChanged {
	return DelinquencyChanged{
		BaseEvent:      events.NewBaseEvent(TypeDelinquencyChanged, loanID, aggregateLoan, at),
		AsOfDate:       asOf,
		PreviousBucket: previousBucket,
		CurrentBucket:  currentBucket,
		PreviousDPD:    previousDPD,
		CurrentDPD:     currentDPD,
		RollDirection:  rollDirection,
	}
}

// FirstPaymentMissed is raised the first time a loan is FIMR-tagged.
type FirstPaymentMissed struct {
	events.BaseEvent
	AsOfDate            civil.Date  `json:"as_of_date"`
	FirstPaymentDueDate *civil.Date `json:"first_payment_due_date,omitempty"`
}

func NewFirstPaymentMissed(loanID string, asOf civil.Date, dueDate *civil.Date, at time.Time) FirstPaymentMissed {
	return FirstPaymentMissed{
		BaseEvent:           events.NewBaseEvent(TypeFirstPaymentMissed, loanID, aggregateLoan, at),
		AsOfDate:            asOf,
		FirstPaymentDueDate: dueDate,
	}
}
