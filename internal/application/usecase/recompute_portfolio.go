package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	"github.com/LibertytechX/seeds-metrics/internal/domain/port"
)

const defaultBatchWorkers = 8

// RecomputePortfolioUseCase re-evaluates every selected loan as of a single
// date. One loan failing never stops the others.
type RecomputePortfolioUseCase struct {
	termsRepo port.LoanTermsRepository
	compute   *ComputeSnapshotUseCase
	clock     port.Clock
	metrics   port.SnapshotMetrics
	workers   int
	logger    *slog.Logger
}

// NewRecomputePortfolioUseCase wires dependencies. workers bounds the number
// of loans evaluated concurrently.
func NewRecomputePortfolioUseCase(
	termsRepo port.LoanTermsRepository,
	compute *ComputeSnapshotUseCase,
	clock port.Clock,
	metrics port.SnapshotMetrics,
	workers int,
	logger *slog.Logger,
) *RecomputePortfolioUseCase {
	if workers <= 0 {
		workers = defaultBatchWorkers
	}
	return &RecomputePortfolioUseCase{
		termsRepo: termsRepo,
		compute:   compute,
		clock:     clock,
		metrics:   metrics,
		workers:   workers,
		logger:    logger,
	}
}

// Execute runs the batch. Cancelling ctx stops new loans from starting; the
// response then reports Cancelled and counts only loans that were attempted.
func (uc *RecomputePortfolioUseCase) Execute(
	ctx context.Context,
	req dto.RecomputePortfolioRequest,
) (dto.RecomputePortfolioResponse, error) {
	started := uc.clock.Now()

	asOf := uc.clock.Today()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	ids, err := uc.termsRepo.ListLoanIDs(ctx, model.LoanIDFilter{
		DisbursedOnOrBefore: req.DisbursedOnOrBefore,
		Limit:               req.Limit,
	})
	if err != nil {
		return dto.RecomputePortfolioResponse{}, fmt.Errorf("list loans: %w", err)
	}

	resp := dto.RecomputePortfolioResponse{AsOfDate: asOf}
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(uc.workers)

	for _, loanID := range ids {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			_, _, err := uc.compute.evaluate(ctx, loanID, asOf)

			mu.Lock()
			defer mu.Unlock()
			resp.Processed++
			if err != nil {
				resp.Failed++
				if errors.Is(err, model.ErrMissingLoanTerms) {
					resp.MissingTerms++
				}
				resp.Failures = append(resp.Failures, dto.LoanFailure{LoanID: loanID, Error: err.Error()})
				return nil
			}
			resp.Succeeded++
			return nil
		})
	}
	_ = g.Wait()

	resp.Cancelled = ctx.Err() != nil
	sort.Slice(resp.Failures, func(i, j int) bool {
		return resp.Failures[i].LoanID < resp.Failures[j].LoanID
	})

	elapsed := uc.clock.Now().Sub(started)
	uc.metrics.BatchCompleted(ctx, elapsed, resp.Succeeded, resp.Failed)

	uc.logger.InfoContext(ctx, "portfolio recompute finished",
		"as_of", asOf.String(),
		"loans", len(ids),
		"processed", resp.Processed,
		"succeeded", resp.Succeeded,
		"failed", resp.Failed,
		"missing_terms", resp.MissingTerms,
		"cancelled", resp.Cancelled,
		"elapsed", elapsed,
	)

	return resp, nil
}
