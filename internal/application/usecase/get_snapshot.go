package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
)

// GetSnapshotUseCase reads stored snapshots. The latest snapshot per loan is
// served through the cache.
type GetSnapshotUseCase struct {
	snapshotRepo port.SnapshotRepository
	cache        port.SnapshotCache
	logger       *slog.Logger
}

// NewGetSnapshotUseCase wires dependencies.
func NewGetSnapshotUseCase(
	snapshotRepo port.SnapshotRepository,
	cache port.SnapshotCache,
	logger *slog.Logger,
) *GetSnapshotUseCase {
	return &GetSnapshotUseCase{
		snapshotRepo: snapshotRepo,
		cache:        cache,
		logger:       logger,
	}
}

// Execute returns the snapshot for the requested date, or the latest one.
func (uc *GetSnapshotUseCase) Execute(
	ctx context.Context,
	req dto.GetSnapshotRequest,
) (dto.SnapshotResponse, error) {
	if req.LoanID == "" {
		return dto.SnapshotResponse{}, fmt.Errorf("%w: loan ID is required", ErrInvalidRequest)
	}

	if req.AsOf != nil {
		snapshot, err := uc.snapshotRepo.FindByDate(ctx, req.LoanID, *req.AsOf)
		if err != nil {
			return dto.SnapshotResponse{}, fmt.Errorf("find snapshot: %w", err)
		}
		return toSnapshotResponse(snapshot), nil
	}

	snapshot, err := uc.latest(ctx, req.LoanID)
	if err != nil {
		return dto.SnapshotResponse{}, err
	}
	return toSnapshotResponse(snapshot), nil
}

func (uc *GetSnapshotUseCase) latest(ctx context.Context, loanID string) (model.MetricsSnapshot, error) {
	cached, cacheErr := uc.cache.Get(ctx, loanID)
	if cacheErr != nil {
		uc.logger.WarnContext(ctx, "snapshot cache read failed", "loan_id", loanID, "error", cacheErr)
	} else if cached.Hit {
		return cached.Snapshot, nil
	}

	snapshot, err := uc.snapshotRepo.FindLatest(ctx, loanID)
	if err != nil {
		return model.MetricsSnapshot{}, fmt.Errorf("find latest snapshot: %w", err)
	}

	// Without a generation from a successful lookup there is nothing to
	// guard the fill with.
	if cacheErr != nil {
		return snapshot, nil
	}
	if err := uc.cache.Fill(ctx, snapshot, cached.Generation); err != nil {
		uc.logger.WarnContext(ctx, "snapshot cache write failed", "loan_id", loanID, "error", err)
	}
	return snapshot, nil
}
