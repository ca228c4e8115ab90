//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
	"github.com/LibertytechX/seeds-metrics/internal/infrastructure/persistence/postgres"
	"github.com/LibertytechX/seeds-metrics/pkg/testutil"
)

const closedLoanID = "LN-0000009"

func TestLoanTermsRepository(t *testing.T) {
	pg, pool := setupTestDB(t)
	repo := postgres.NewLoanTermsRepo(pool)
	ctx := context.Background()

	seedStandardLoan(t, pg, testutil.TestLoanID1)
	seedStandardLoan(t, pg, testutil.TestLoanID2)
	pg.Exec(t, `UPDATE loans SET disbursement_date = '2024-03-01', status = 'ACTIVE' WHERE loan_id = $1`, testutil.TestLoanID2)
	pg.Exec(t, `
		INSERT INTO loans (loan_id, loan_amount, status) VALUES ($1, 500, 'Active')
	`, testutil.TestLoanID3)
	seedStandardLoan(t, pg, closedLoanID)
	pg.Exec(t, `UPDATE loans SET status = 'Closed' WHERE loan_id = $1`, closedLoanID)

	t.Run("find by id", func(t *testing.T) {
		terms, err := repo.FindByID(ctx, testutil.TestLoanID1)
		require.NoError(t, err)
		assert.Equal(t, testutil.TestLoanID1, terms.LoanID)
		testutil.AssertDecimalEqual(t, "1000", terms.Principal)
		testutil.AssertDecimalEqual(t, "0.15", terms.InterestRate)
		testutil.AssertDecimalEqual(t, "50", terms.FeeAmount)
		assert.Equal(t, 30, terms.TermDays)
		assert.Equal(t, testutil.DatePtr(2024, time.January, 1), terms.DisbursementDate)
		assert.Equal(t, testutil.DatePtr(2024, time.January, 2), terms.FirstPaymentDueDate)
	})

	t.Run("null dates stay nil", func(t *testing.T) {
		terms, err := repo.FindByID(ctx, testutil.TestLoanID3)
		require.NoError(t, err)
		assert.Nil(t, terms.DisbursementDate)
		assert.Nil(t, terms.MaturityDate)
	})

	t.Run("unknown loan", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrMissingLoanTerms)
	})

	t.Run("list matches active in any case and skips closed or undisbursed loans", func(t *testing.T) {
		ids, err := repo.ListLoanIDs(ctx, model.LoanIDFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{testutil.TestLoanID1, testutil.TestLoanID2}, ids)
	})

	t.Run("list with disbursement bound and limit", func(t *testing.T) {
		ids, err := repo.ListLoanIDs(ctx, model.LoanIDFilter{
			DisbursedOnOrBefore: testutil.DatePtr(2024, time.February, 1),
		})
		require.NoError(t, err)
		assert.Equal(t, []string{testutil.TestLoanID1}, ids)

		ids, err = repo.ListLoanIDs(ctx, model.LoanIDFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, ids, 1)
	})
}

func TestRepaymentRepository_FindByLoanID(t *testing.T) {
	pg, pool := setupTestDB(t)
	repo := postgres.NewRepaymentRepo(pool)

	seedStandardLoan(t, pg, testutil.TestLoanID1)

	repayments, err := repo.FindByLoanID(context.Background(), testutil.TestLoanID1)
	require.NoError(t, err)
	require.Len(t, repayments, 2)

	assert.Equal(t, testutil.Date(2024, time.January, 2), repayments[0].PaymentDate, "ordered by payment date")
	testutil.AssertDecimalEqual(t, "337.5", repayments[0].PaymentAmount)
	testutil.AssertDecimalEqual(t, "50", repayments[0].FeesPaid)
	assert.False(t, repayments[1].Reversed, "NULL reversal flag reads as false")

	none, err := repo.FindByLoanID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSnapshotRepository_SaveAndFind(t *testing.T) {
	pg, pool := setupTestDB(t)
	ctx := context.Background()
	seedStandardLoan(t, pg, testutil.TestLoanID1)

	termsRepo := postgres.NewLoanTermsRepo(pool)
	repaymentRepo := postgres.NewRepaymentRepo(pool)
	snapshotRepo := postgres.NewSnapshotRepo(pool)
	outboxRepo := postgres.NewOutboxRepo(pool)
	engine := service.NewMetricsEngine()

	terms, err := termsRepo.FindByID(ctx, testutil.TestLoanID1)
	require.NoError(t, err)
	repayments, err := repaymentRepo.FindByLoanID(ctx, testutil.TestLoanID1)
	require.NoError(t, err)

	earlier, err := engine.ComputeSnapshot(&terms, repayments, testutil.Date(2024, time.January, 20))
	require.NoError(t, err)
	later, err := engine.ComputeSnapshot(&terms, repayments, testutil.Date(2024, time.January, 26))
	require.NoError(t, err)

	now := time.Date(2024, time.January, 26, 8, 0, 0, 0, time.UTC)
	require.NoError(t, snapshotRepo.Save(ctx, earlier))
	require.NoError(t, snapshotRepo.Save(ctx, later, event.NewSnapshotComputed(
		later.LoanID, later.AsOfDate, later.CurrentDPD, later.TotalOutstanding, later.ActualOutstanding,
		later.RiskScore, later.RiskCategory.String(), "", now,
	)))

	t.Run("latest", func(t *testing.T) {
		got, err := snapshotRepo.FindLatest(ctx, testutil.TestLoanID1)
		require.NoError(t, err)
		assert.Equal(t, later.AsOfDate, got.AsOfDate)
		assert.Equal(t, 5, got.CurrentDPD)
		assert.Equal(t, "DPD_1_6", got.DPDBucket.String())
		testutil.AssertDecimalEqual(t, "175", got.ActualOutstanding)
	})

	t.Run("by date and previous", func(t *testing.T) {
		got, err := snapshotRepo.FindByDate(ctx, testutil.TestLoanID1, testutil.Date(2024, time.January, 20))
		require.NoError(t, err)
		assert.Equal(t, earlier.CurrentDPD, got.CurrentDPD)

		prev, err := snapshotRepo.FindPrevious(ctx, testutil.TestLoanID1, later.AsOfDate)
		require.NoError(t, err)
		assert.Equal(t, earlier.AsOfDate, prev.AsOfDate)

		_, err = snapshotRepo.FindPrevious(ctx, testutil.TestLoanID1, earlier.AsOfDate)
		assert.ErrorIs(t, err, model.ErrSnapshotNotFound)
	})

	t.Run("save replaces same date", func(t *testing.T) {
		require.NoError(t, snapshotRepo.Save(ctx, later))

		var count int
		require.NoError(t, pool.QueryRow(ctx,
			`SELECT COUNT(*) FROM loan_metric_snapshots WHERE loan_id = $1`, testutil.TestLoanID1,
		).Scan(&count))
		assert.Equal(t, 2, count)
	})

	t.Run("events land in the outbox", func(t *testing.T) {
		entries, err := outboxRepo.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, event.TypeSnapshotComputed, entries[0].EventType)
		assert.Equal(t, testutil.TestLoanID1, entries[0].AggregateID)

		require.NoError(t, outboxRepo.MarkPublished(ctx, []string{entries[0].ID}, now))

		entries, err = outboxRepo.FetchUnpublished(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
