package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/event"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
	"github.com/LibertytechX/seeds-metrics/internal/domain/valueobject"
	"github.com/LibertytechX/seeds-metrics/pkg/events"
)

// ErrInvalidRequest marks requests rejected before any work is done.
var ErrInvalidRequest = errors.New("invalid request")

var tracer = otel.Tracer("github.com/LibertytechX/seeds-metrics/internal/application/usecase")

// ComputeSnapshotUseCase evaluates one loan and stores the resulting snapshot.
type ComputeSnapshotUseCase struct {
	termsRepo     port.LoanTermsRepository
	repaymentRepo port.RepaymentRepository
	snapshotRepo  port.SnapshotRepository
	cache         port.SnapshotCache
	engine        *service.MetricsEngine
	clock         port.Clock
	metrics       port.SnapshotMetrics
	logger        *slog.Logger
}

// NewComputeSnapshotUseCase wires dependencies.
func NewComputeSnapshotUseCase(
	termsRepo port.LoanTermsRepository,
	repaymentRepo port.RepaymentRepository,
	snapshotRepo port.SnapshotRepository,
	cache port.SnapshotCache,
	engine *service.MetricsEngine,
	clock port.Clock,
	metrics port.SnapshotMetrics,
	logger *slog.Logger,
) *ComputeSnapshotUseCase {
	return &ComputeSnapshotUseCase{
		termsRepo:     termsRepo,
		repaymentRepo: repaymentRepo,
		snapshotRepo:  snapshotRepo,
		cache:         cache,
		engine:        engine,
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
	}
}

// Execute computes and stores the snapshot for a single loan.
func (uc *ComputeSnapshotUseCase) Execute(
	ctx context.Context,
	req dto.ComputeSnapshotRequest,
) (dto.SnapshotResponse, error) {
	if req.LoanID == "" {
		return dto.SnapshotResponse{}, fmt.Errorf("%w: loan ID is required", ErrInvalidRequest)
	}

	asOf := uc.clock.Today()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	snapshot, roll, err := uc.evaluate(ctx, req.LoanID, asOf)
	if err != nil {
		return dto.SnapshotResponse{}, err
	}

	resp := toSnapshotResponse(snapshot)
	resp.RollDirection = roll.String()
	return resp, nil
}

// evaluate runs the full load, compute, store cycle for one loan. It is shared
// with the portfolio batch.
func (uc *ComputeSnapshotUseCase) evaluate(
	ctx context.Context,
	loanID string,
	asOf civil.Date,
) (model.MetricsSnapshot, valueobject.RollDirection, error) {
	ctx, span := tracer.Start(ctx, "ComputeSnapshot")
	defer span.End()
	span.SetAttributes(
		attribute.String("loan_id", loanID),
		attribute.String("as_of", asOf.String()),
	)

	snapshot, roll, err := uc.computeAndStore(ctx, loanID, asOf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		uc.metrics.SnapshotFailed(ctx, failureReason(err))
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, err
	}

	uc.metrics.SnapshotComputed(ctx)
	return snapshot, roll, nil
}

func (uc *ComputeSnapshotUseCase) computeAndStore(
	ctx context.Context,
	loanID string,
	asOf civil.Date,
) (model.MetricsSnapshot, valueobject.RollDirection, error) {
	// 1. Load source data.
	terms, err := uc.termsRepo.FindByID(ctx, loanID)
	if err != nil {
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, fmt.Errorf("find loan terms: %w", err)
	}

	repayments, err := uc.repaymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, fmt.Errorf("find repayments: %w", err)
	}

	// 2. Compute.
	snapshot, err := uc.engine.ComputeSnapshot(&terms, repayments, asOf)
	if err != nil {
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, fmt.Errorf("compute snapshot: %w", err)
	}

	// 3. Compare with the previous evaluation.
	var previous *model.MetricsSnapshot
	prev, err := uc.snapshotRepo.FindPrevious(ctx, loanID, asOf)
	switch {
	case err == nil:
		previous = &prev
	case errors.Is(err, model.ErrSnapshotNotFound):
	default:
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, fmt.Errorf("find previous snapshot: %w", err)
	}

	roll := valueobject.RollDirectionStable
	if previous != nil {
		roll = valueobject.RollDirectionBetween(previous.CurrentDPD, snapshot.CurrentDPD)
	}

	// 4. Persist snapshot and events together.
	evts := snapshotEvents(snapshot, previous, roll, terms.FirstPaymentDueDate, uc.clock)
	if err := uc.snapshotRepo.Save(ctx, snapshot, evts...); err != nil {
		return model.MetricsSnapshot{}, valueobject.RollDirection{}, fmt.Errorf("save snapshot: %w", err)
	}

	if err := uc.cache.Invalidate(ctx, loanID); err != nil {
		uc.logger.WarnContext(ctx, "snapshot cache invalidation failed",
			"loan_id", loanID,
			"error", err,
		)
	}

	uc.logger.DebugContext(ctx, "snapshot computed",
		"loan_id", loanID,
		"as_of", asOf.String(),
		"current_dpd", snapshot.CurrentDPD,
		"roll_direction", roll.String(),
	)

	return snapshot, roll, nil
}

func snapshotEvents(
	snapshot model.MetricsSnapshot,
	previous *model.MetricsSnapshot,
	roll valueobject.RollDirection,
	dueDate *civil.Date,
	clock port.Clock,
) []event.DomainEvent {
	at := clock.Now()
	collector := &events.EventCollector{}

	rollName := ""
	if previous != nil {
		rollName = roll.String()
	}
	collector.Record(event.NewSnapshotComputed(
		snapshot.LoanID, snapshot.AsOfDate,
		snapshot.CurrentDPD, snapshot.TotalOutstanding, snapshot.ActualOutstanding,
		snapshot.RiskScore, snapshot.RiskCategory.String(), rollName,
		at,
	))

	if previous != nil && !previous.DPDBucket.Equal(snapshot.DPDBucket) {
		collector.Record(event.NewDelinquencyChanged(
			snapshot.LoanID, snapshot.AsOfDate,
			previous.DPDBucket.String(), snapshot.DPDBucket.String(),
			previous.CurrentDPD, snapshot.CurrentDPD,
			roll.String(),
			at,
		))
	}

	if snapshot.FIMRTagged && (previous == nil || !previous.FIMRTagged) {
		collector.Record(event.NewFirstPaymentMissed(snapshot.LoanID, snapshot.AsOfDate, dueDate, at))
	}

	return collector.ClearEvents()
}

func failureReason(err error) string {
	if errors.Is(err, model.ErrMissingLoanTerms) {
		return "missing_terms"
	}
	return "error"
}
