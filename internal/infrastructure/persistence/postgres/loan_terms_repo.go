package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	pkgpostgres "github.com/LibertytechX/seeds-metrics/pkg/postgres"
)

// LoanTermsRepo implements port.LoanTermsRepository over the loans table.
type LoanTermsRepo struct {
	db pkgpostgres.Querier
}

// NewLoanTermsRepo creates a new PostgreSQL-backed loan terms repository.
func NewLoanTermsRepo(db pkgpostgres.Querier) *LoanTermsRepo {
	return &LoanTermsRepo{db: db}
}

// FindByID loads the origination terms of one loan.
func (r *LoanTermsRepo) FindByID(ctx context.Context, loanID string) (model.LoanTerms, error) {
	query := `
		SELECT loan_id, loan_amount, interest_rate, fee_amount, loan_term_days,
		       disbursement_date, maturity_date, first_payment_due_date
		FROM loans
		WHERE loan_id = $1
	`
	var (
		terms                        model.LoanTerms
		principal, rate, fee         decimal.Decimal
		disbursed, matures, firstDue pgtype.Date
	)
	err := r.db.QueryRow(ctx, query, loanID).Scan(
		&terms.LoanID, &principal, &rate, &fee, &terms.TermDays,
		&disbursed, &matures, &firstDue,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.LoanTerms{}, fmt.Errorf("loan %s: %w", loanID, model.ErrMissingLoanTerms)
	}
	if err != nil {
		return model.LoanTerms{}, fmt.Errorf("scan loan terms: %w", err)
	}

	terms.Principal = principal
	terms.InterestRate = rate
	terms.FeeAmount = fee
	terms.DisbursementDate = civilDate(disbursed)
	terms.MaturityDate = civilDate(matures)
	terms.FirstPaymentDueDate = civilDate(firstDue)
	return terms, nil
}

// ListLoanIDs returns active, disbursed loans ordered by ID. Upstream loan
// tables spell the status 'Active' or 'ACTIVE', so it is matched without case.
func (r *LoanTermsRepo) ListLoanIDs(ctx context.Context, filter model.LoanIDFilter) ([]string, error) {
	query := `
		SELECT loan_id
		FROM loans
		WHERE lower(status) = 'active'
		  AND disbursement_date IS NOT NULL
		  AND ($1::date IS NULL OR disbursement_date <= $1::date)
		ORDER BY loan_id
		LIMIT NULLIF($2, 0)
	`
	rows, err := r.db.Query(ctx, query, nullableDateArg(filter.DisbursedOnOrBefore), filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("query loan ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan loan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
