package usecase

import (
	"context"
	"fmt"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
)

// PreviewSnapshotUseCase evaluates caller-supplied terms and repayments
// without reading or writing storage.
type PreviewSnapshotUseCase struct {
	engine *service.MetricsEngine
	clock  port.Clock
}

// NewPreviewSnapshotUseCase wires dependencies.
func NewPreviewSnapshotUseCase(engine *service.MetricsEngine, clock port.Clock) *PreviewSnapshotUseCase {
	return &PreviewSnapshotUseCase{engine: engine, clock: clock}
}

// Execute computes a snapshot from the request alone.
func (uc *PreviewSnapshotUseCase) Execute(
	ctx context.Context,
	req dto.PreviewSnapshotRequest,
) (dto.SnapshotResponse, error) {
	if req.Terms == nil {
		return dto.SnapshotResponse{}, fmt.Errorf("preview snapshot: %w", model.ErrMissingLoanTerms)
	}

	terms, err := toLoanTerms(*req.Terms)
	if err != nil {
		return dto.SnapshotResponse{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	asOf := uc.clock.Today()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	_, span := tracer.Start(ctx, "PreviewSnapshot")
	defer span.End()

	snapshot, err := uc.engine.ComputeSnapshot(&terms, toRepayments(terms.LoanID, req.Repayments), asOf)
	if err != nil {
		return dto.SnapshotResponse{}, fmt.Errorf("compute snapshot: %w", err)
	}
	return toSnapshotResponse(snapshot), nil
}
