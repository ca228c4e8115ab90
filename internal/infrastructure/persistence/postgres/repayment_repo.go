package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	pkgpostgres "github.com/LibertytechX/seeds-metrics/pkg/postgres"
)

// RepaymentRepo implements port.RepaymentRepository.
type RepaymentRepo struct {
	db pkgpostgres.Querier
}

// NewRepaymentRepo creates a new PostgreSQL-backed repayment repository.
func NewRepaymentRepo(db pkgpostgres.Querier) *RepaymentRepo {
	return &RepaymentRepo{db: db}
}

// FindByLoanID returns every repayment of the loan, reversed ones included,
// in payment order. A NULL is_reversed flag reads as not reversed.
func (r *RepaymentRepo) FindByLoanID(ctx context.Context, loanID string) ([]model.Repayment, error) {
	query := `
		SELECT repayment_id, loan_id, payment_date, payment_amount,
		       principal_paid, interest_paid, fees_paid,
		       COALESCE(is_reversed, FALSE)
		FROM repayments
		WHERE loan_id = $1
		ORDER BY payment_date, repayment_id
	`
	rows, err := r.db.Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query repayments: %w", err)
	}
	defer rows.Close()

	var repayments []model.Repayment
	for rows.Next() {
		var (
			rep  model.Repayment
			paid pgtype.Date
		)
		if err := rows.Scan(
			&rep.RepaymentID, &rep.LoanID, &paid, &rep.PaymentAmount,
			&rep.PrincipalPaid, &rep.InterestPaid, &rep.FeesPaid,
			&rep.Reversed,
		); err != nil {
			return nil, fmt.Errorf("scan repayment: %w", err)
		}
		rep.PaymentDate = *civilDate(paid)
		repayments = append(repayments, rep)
	}
	return repayments, rows.Err()
}
