//go:build integration

package integration

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LibertytechX/seeds-metrics/pkg/testutil"
)

func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "internal", "infrastructure", "persistence", "postgres", "migrations")
}

func setupTestDB(t *testing.T) (*testutil.PostgresContainer, *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()

	pg := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pg.Cleanup(t) })

	pg.RunMigrations(t, migrationsDir())
	return pg, pg.Pool
}

// seedStandardLoan inserts a 30-day loan of 1000 at 15% with a 50 fee,
// disbursed 2024-01-01, and two repayments.
func seedStandardLoan(t *testing.T, pg *testutil.PostgresContainer, loanID string) {
	t.Helper()

	pg.Exec(t, `
		INSERT INTO loans (loan_id, loan_amount, interest_rate, fee_amount, loan_term_days,
		                   disbursement_date, maturity_date, first_payment_due_date, status)
		VALUES ($1, 1000, 0.15, 50, 30, '2024-01-01', '2024-02-09', '2024-01-02', 'Active')
	`, loanID)
	pg.Exec(t, `
		INSERT INTO repayments (repayment_id, loan_id, payment_date, payment_amount,
		                        principal_paid, interest_paid, fees_paid, is_reversed)
		VALUES ($1, $2, '2024-01-12', 287.5, 250, 37.5, 0, NULL),
		       ($3, $2, '2024-01-02', 337.5, 250, 37.5, 50, FALSE)
	`, loanID+"-r2", loanID, loanID+"-r1")
}
