package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/pkg/events"
	pkgpostgres "github.com/LibertytechX/seeds-metrics/pkg/postgres"
)

// SnapshotRepo implements port.SnapshotRepository. The full snapshot is kept
// as JSONB; the headline figures are duplicated into columns for reporting.
type SnapshotRepo struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepo creates a new PostgreSQL-backed snapshot repository.
func NewSnapshotRepo(pool *pgxpool.Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Save upserts the snapshot for (loan_id, as_of_date) and appends its events
// to the outbox in the same transaction.
func (r *SnapshotRepo) Save(ctx context.Context, snapshot model.MetricsSnapshot, evts ...event.DomainEvent) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	entries := make([]events.OutboxEntry, 0, len(evts))
	for _, evt := range evts {
		entry, err := events.NewOutboxEntry(evt)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO loan_metric_snapshots (
				loan_id, as_of_date, current_dpd, max_dpd_ever, dpd_bucket,
				fimr_tagged, total_outstanding, actual_outstanding,
				risk_score, risk_category, payload, computed_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,NOW())
			ON CONFLICT (loan_id, as_of_date) DO UPDATE SET
				current_dpd        = EXCLUDED.current_dpd,
				max_dpd_ever       = EXCLUDED.max_dpd_ever,
				dpd_bucket         = EXCLUDED.dpd_bucket,
				fimr_tagged        = EXCLUDED.fimr_tagged,
				total_outstanding  = EXCLUDED.total_outstanding,
				actual_outstanding = EXCLUDED.actual_outstanding,
				risk_score         = EXCLUDED.risk_score,
				risk_category      = EXCLUDED.risk_category,
				payload            = EXCLUDED.payload,
				computed_at        = EXCLUDED.computed_at
		`
		if _, err := tx.Exec(ctx, query,
			snapshot.LoanID, dateArg(snapshot.AsOfDate),
			snapshot.CurrentDPD, snapshot.MaxDPDEver, snapshot.DPDBucket.String(),
			snapshot.FIMRTagged, snapshot.TotalOutstanding, snapshot.ActualOutstanding,
			snapshot.RiskScore, snapshot.RiskCategory.String(), payload,
		); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}

		for _, entry := range entries {
			if err := insertOutboxEntry(ctx, tx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

// FindLatest returns the snapshot with the greatest as-of date.
func (r *SnapshotRepo) FindLatest(ctx context.Context, loanID string) (model.MetricsSnapshot, error) {
	query := `
		SELECT payload FROM loan_metric_snapshots
		WHERE loan_id = $1
		ORDER BY as_of_date DESC
		LIMIT 1
	`
	return r.scanOne(ctx, loanID, query, loanID)
}

// FindByDate returns the snapshot computed as of exactly asOf.
func (r *SnapshotRepo) FindByDate(ctx context.Context, loanID string, asOf civil.Date) (model.MetricsSnapshot, error) {
	query := `
		SELECT payload FROM loan_metric_snapshots
		WHERE loan_id = $1 AND as_of_date = $2
	`
	return r.scanOne(ctx, loanID, query, loanID, dateArg(asOf))
}

// FindPrevious returns the most recent snapshot strictly before the given date.
func (r *SnapshotRepo) FindPrevious(ctx context.Context, loanID string, before civil.Date) (model.MetricsSnapshot, error) {
	query := `
		SELECT payload FROM loan_metric_snapshots
		WHERE loan_id = $1 AND as_of_date < $2
		ORDER BY as_of_date DESC
		LIMIT 1
	`
	return r.scanOne(ctx, loanID, query, loanID, dateArg(before))
}

func (r *SnapshotRepo) scanOne(ctx context.Context, loanID, query string, args ...any) (model.MetricsSnapshot, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, query, args...).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.MetricsSnapshot{}, fmt.Errorf("loan %s: %w", loanID, model.ErrSnapshotNotFound)
	}
	if err != nil {
		return model.MetricsSnapshot{}, fmt.Errorf("query snapshot: %w", err)
	}

	var snapshot model.MetricsSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return model.MetricsSnapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}
