package port

import (
	"context"
	"time"

	"cloud.google.com/go/civil"

	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Source data ports (read-only)
// ---------------------------------------------------------------------------

// LoanTermsRepository looks up origination terms. FindByID returns an error
// wrapping model.ErrMissingLoanTerms when the loan is unknown.
type LoanTermsRepository interface {
	FindByID(ctx context.Context, loanID string) (model.LoanTerms, error)
	ListLoanIDs(ctx context.Context, filter model.LoanIDFilter) ([]string, error)
}

// RepaymentRepository lists a loan's repayments in chronological order.
type RepaymentRepository interface {
	FindByLoanID(ctx context.Context, loanID string) ([]model.Repayment, error)
}

// ---------------------------------------------------------------------------
// Snapshot ports
// ---------------------------------------------------------------------------

// SnapshotRepository stores computed snapshots. Save replaces any snapshot
// for the same loan and date, and stores the events in the same transaction.
// Finders return an error wrapping model.ErrSnapshotNotFound when empty.
type SnapshotRepository interface {
	Save(ctx context.Context, snapshot model.MetricsSnapshot, events ...event.DomainEvent) error
	FindLatest(ctx context.Context, loanID string) (model.MetricsSnapshot, error)
	FindByDate(ctx context.Context, loanID string, asOf civil.Date) (model.MetricsSnapshot, error)
	FindPrevious(ctx context.Context, loanID string, before civil.Date) (model.MetricsSnapshot, error)
}

// CachedSnapshot is the result of a cache lookup. Generation counts the
// invalidations of the loan's entry; a reader that missed passes it back to
// Fill.
type CachedSnapshot struct {
	Snapshot   model.MetricsSnapshot
	Hit        bool
	Generation int64
}

// SnapshotCache holds the latest snapshot per loan. Fill stores a snapshot
// only if the entry has not been invalidated since the lookup that returned
// generation, so a slow reader cannot overwrite a newer computation.
type SnapshotCache interface {
	Get(ctx context.Context, loanID string) (CachedSnapshot, error)
	Fill(ctx context.Context, snapshot model.MetricsSnapshot, generation int64) error
	Invalidate(ctx context.Context, loanID string) error
}

// ---------------------------------------------------------------------------
// Ambient ports
// ---------------------------------------------------------------------------

// Clock supplies the current time to the application layer. Nothing below
// the use cases reads a clock.
type Clock interface {
	Now() time.Time
	Today() civil.Date
}

// SnapshotMetrics records engine throughput.
type SnapshotMetrics interface {
	SnapshotComputed(ctx context.Context)
	SnapshotFailed(ctx context.Context, reason string)
	BatchCompleted(ctx context.Context, elapsed time.Duration, succeeded, failed int)
}
