package usecase_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func day(y, m, d int) civil.Date {
	return civil.Date{Year: y, Month: time.Month(m), Day: d}
}

func dayPtr(y, m, d int) *civil.Date {
	v := day(y, m, d)
	return &v
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func loanTerms(loanID string) model.LoanTerms {
	return model.LoanTerms{
		LoanID:              loanID,
		Principal:           dec("1000"),
		InterestRate:        dec("0.15"),
		FeeAmount:           dec("50"),
		TermDays:            30,
		DisbursementDate:    dayPtr(2024, 1, 1),
		MaturityDate:        dayPtr(2024, 2, 9),
		FirstPaymentDueDate: dayPtr(2024, 1, 2),
	}
}

func repaymentsFor(loanID string) []model.Repayment {
	return []model.Repayment{
		{
			RepaymentID: "rep-001", LoanID: loanID, PaymentDate: day(2024, 1, 2),
			PrincipalPaid: dec("250"), InterestPaid: dec("37.5"), FeesPaid: dec("50"), PaymentAmount: dec("337.5"),
		},
		{
			RepaymentID: "rep-002", LoanID: loanID, PaymentDate: day(2024, 1, 12),
			PrincipalPaid: dec("250"), InterestPaid: dec("37.5"), FeesPaid: dec("0"), PaymentAmount: dec("287.5"),
		},
	}
}

// ---------------------------------------------------------------------------
// Mock LoanTermsRepository
// ---------------------------------------------------------------------------

type mockLoanTermsRepository struct {
	findByIDFunc    func(ctx context.Context, loanID string) (model.LoanTerms, error)
	listLoanIDsFunc func(ctx context.Context, filter model.LoanIDFilter) ([]string, error)
	lastFilter      model.LoanIDFilter
}

func (m *mockLoanTermsRepository) FindByID(ctx context.Context, loanID string) (model.LoanTerms, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, loanID)
	}
	return loanTerms(loanID), nil
}

func (m *mockLoanTermsRepository) ListLoanIDs(ctx context.Context, filter model.LoanIDFilter) ([]string, error) {
	m.lastFilter = filter
	if m.listLoanIDsFunc != nil {
		return m.listLoanIDsFunc(ctx, filter)
	}
	return nil, nil
}

// ---------------------------------------------------------------------------
// Mock RepaymentRepository
// ---------------------------------------------------------------------------

type mockRepaymentRepository struct {
	findByLoanIDFunc func(ctx context.Context, loanID string) ([]model.Repayment, error)
}

func (m *mockRepaymentRepository) FindByLoanID(ctx context.Context, loanID string) ([]model.Repayment, error) {
	if m.findByLoanIDFunc != nil {
		return m.findByLoanIDFunc(ctx, loanID)
	}
	return repaymentsFor(loanID), nil
}

// ---------------------------------------------------------------------------
// Mock SnapshotRepository
// ---------------------------------------------------------------------------

type mockSnapshotRepository struct {
	mu sync.Mutex

	saveFunc         func(ctx context.Context, snapshot model.MetricsSnapshot) error
	findLatestFunc   func(ctx context.Context, loanID string) (model.MetricsSnapshot, error)
	findByDateFunc   func(ctx context.Context, loanID string, asOf civil.Date) (model.MetricsSnapshot, error)
	findPreviousFunc func(ctx context.Context, loanID string, before civil.Date) (model.MetricsSnapshot, error)

	savedSnapshots []model.MetricsSnapshot
	savedEvents    []event.DomainEvent
	latestCalls    int
}

func (m *mockSnapshotRepository) Save(ctx context.Context, snapshot model.MetricsSnapshot, evts ...event.DomainEvent) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, snapshot); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.savedSnapshots = append(m.savedSnapshots, snapshot)
	m.savedEvents = append(m.savedEvents, evts...)
	return nil
}

func (m *mockSnapshotRepository) FindLatest(ctx context.Context, loanID string) (model.MetricsSnapshot, error) {
	m.mu.Lock()
	m.latestCalls++
	m.mu.Unlock()
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, loanID)
	}
	return model.MetricsSnapshot{}, fmt.Errorf("loan %s: %w", loanID, model.ErrSnapshotNotFound)
}

func (m *mockSnapshotRepository) FindByDate(ctx context.Context, loanID string, asOf civil.Date) (model.MetricsSnapshot, error) {
	if m.findByDateFunc != nil {
		return m.findByDateFunc(ctx, loanID, asOf)
	}
	return model.MetricsSnapshot{}, fmt.Errorf("loan %s on %s: %w", loanID, asOf, model.ErrSnapshotNotFound)
}

func (m *mockSnapshotRepository) FindPrevious(ctx context.Context, loanID string, before civil.Date) (model.MetricsSnapshot, error) {
	if m.findPreviousFunc != nil {
		return m.findPreviousFunc(ctx, loanID, before)
	}
	return model.MetricsSnapshot{}, fmt.Errorf("loan %s: %w", loanID, model.ErrSnapshotNotFound)
}

func (m *mockSnapshotRepository) eventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.savedEvents))
	for i, e := range m.savedEvents {
		types[i] = e.EventType()
	}
	return types
}

// ---------------------------------------------------------------------------
// Mock SnapshotCache
// ---------------------------------------------------------------------------

type mockSnapshotCache struct {
	mu sync.Mutex

	entries        map[string]model.MetricsSnapshot
	generations    map[string]int64
	getErr         error
	invalidateErr  error
	invalidatedIDs []string
}

func newMockSnapshotCache() *mockSnapshotCache {
	return &mockSnapshotCache{
		entries:     make(map[string]model.MetricsSnapshot),
		generations: make(map[string]int64),
	}
}

func (m *mockSnapshotCache) Get(_ context.Context, loanID string) (port.CachedSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return port.CachedSnapshot{}, m.getErr
	}
	s, ok := m.entries[loanID]
	return port.CachedSnapshot{Snapshot: s, Hit: ok, Generation: m.generations[loanID]}, nil
}

func (m *mockSnapshotCache) Fill(_ context.Context, snapshot model.MetricsSnapshot, generation int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[snapshot.LoanID] != generation {
		return nil
	}
	m.entries[snapshot.LoanID] = snapshot
	return nil
}

func (m *mockSnapshotCache) Invalidate(_ context.Context, loanID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidatedIDs = append(m.invalidatedIDs, loanID)
	m.generations[loanID]++
	delete(m.entries, loanID)
	return m.invalidateErr
}

// ---------------------------------------------------------------------------
// Fixed clock
// ---------------------------------------------------------------------------

type fixedClock struct {
	now time.Time
}

func newFixedClock(d civil.Date) fixedClock {
	return fixedClock{now: d.In(time.UTC).Add(8 * time.Hour)}
}

func (c fixedClock) Now() time.Time    { return c.now }
func (c fixedClock) Today() civil.Date { return civil.DateOf(c.now) }

// ---------------------------------------------------------------------------
// Mock SnapshotMetrics
// ---------------------------------------------------------------------------

type mockSnapshotMetrics struct {
	mu sync.Mutex

	computed       int
	failureReasons []string
	batches        int
	lastSucceeded  int
	lastFailed     int
}

func (m *mockSnapshotMetrics) SnapshotComputed(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.computed++
}

func (m *mockSnapshotMetrics) SnapshotFailed(_ context.Context, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failureReasons = append(m.failureReasons, reason)
}

func (m *mockSnapshotMetrics) BatchCompleted(_ context.Context, _ time.Duration, succeeded, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches++
	m.lastSucceeded = succeeded
	m.lastFailed = failed
}
