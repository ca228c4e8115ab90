package grpc

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/application/usecase"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
)

// LoanMetricsHandler implements the gRPC loan metrics service handler.
type LoanMetricsHandler struct {
	UnimplementedLoanMetricsServiceServer

	compute   *usecase.ComputeSnapshotUseCase
	get       *usecase.GetSnapshotUseCase
	preview   *usecase.PreviewSnapshotUseCase
	recompute *usecase.RecomputePortfolioUseCase
}

// NewLoanMetricsHandler creates a new gRPC loan metrics handler.
func NewLoanMetricsHandler(
	compute *usecase.ComputeSnapshotUseCase,
	get *usecase.GetSnapshotUseCase,
	preview *usecase.PreviewSnapshotUseCase,
	recompute *usecase.RecomputePortfolioUseCase,
) *LoanMetricsHandler {
	return &LoanMetricsHandler{
		compute:   compute,
		get:       get,
		preview:   preview,
		recompute: recompute,
	}
}

// ComputeSnapshotRequest represents the gRPC request for computing a snapshot.
// Dates are ISO-8601 calendar dates (YYYY-MM-DD).
type ComputeSnapshotRequest struct {
	LoanID string `json:"loan_id"`
	AsOf   string `json:"as_of,omitempty"`
}

// GetSnapshotRequest represents the gRPC request for reading a stored snapshot.
type GetSnapshotRequest struct {
	LoanID string `json:"loan_id"`
	AsOf   string `json:"as_of,omitempty"`
}

// PreviewSnapshotRequest represents the gRPC request for a dry-run evaluation.
type PreviewSnapshotRequest struct {
	Terms      *dto.LoanTermsInput  `json:"terms"`
	Repayments []dto.RepaymentInput `json:"repayments"`
	AsOf       string               `json:"as_of,omitempty"`
}

// RecomputePortfolioRequest represents the gRPC request for a portfolio run.
type RecomputePortfolioRequest struct {
	AsOf                string `json:"as_of,omitempty"`
	DisbursedOnOrBefore string `json:"disbursed_on_or_before,omitempty"`
	Limit               int32  `json:"limit,omitempty"`
}

// SnapshotReply wraps a snapshot.
type SnapshotReply struct {
	Snapshot dto.SnapshotResponse `json:"snapshot"`
}

// RecomputePortfolioReply summarises a portfolio run.
type RecomputePortfolioReply struct {
	Summary dto.RecomputePortfolioResponse `json:"summary"`
}

// ComputeSnapshot handles the gRPC ComputeSnapshot request.
func (h *LoanMetricsHandler) ComputeSnapshot(ctx context.Context, req *ComputeSnapshotRequest) (*SnapshotReply, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	asOf, err := parseOptionalDate("as_of", req.AsOf)
	if err != nil {
		return nil, err
	}

	result, err := h.compute.Execute(ctx, dto.ComputeSnapshotRequest{
		LoanID: req.LoanID,
		AsOf:   asOf,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &SnapshotReply{Snapshot: result}, nil
}

// GetSnapshot handles the gRPC GetSnapshot request.
func (h *LoanMetricsHandler) GetSnapshot(ctx context.Context, req *GetSnapshotRequest) (*SnapshotReply, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.LoanID == "" {
		return nil, status.Error(codes.InvalidArgument, "loan_id is required")
	}

	asOf, err := parseOptionalDate("as_of", req.AsOf)
	if err != nil {
		return nil, err
	}

	result, err := h.get.Execute(ctx, dto.GetSnapshotRequest{
		LoanID: req.LoanID,
		AsOf:   asOf,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &SnapshotReply{Snapshot: result}, nil
}

// PreviewSnapshot handles the gRPC PreviewSnapshot request.
func (h *LoanMetricsHandler) PreviewSnapshot(ctx context.Context, req *PreviewSnapshotRequest) (*SnapshotReply, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Terms == nil {
		return nil, status.Error(codes.InvalidArgument, "terms are required")
	}

	asOf, err := parseOptionalDate("as_of", req.AsOf)
	if err != nil {
		return nil, err
	}

	result, err := h.preview.Execute(ctx, dto.PreviewSnapshotRequest{
		Terms:      req.Terms,
		Repayments: req.Repayments,
		AsOf:       asOf,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &SnapshotReply{Snapshot: result}, nil
}

// RecomputePortfolio handles the gRPC RecomputePortfolio request.
func (h *LoanMetricsHandler) RecomputePortfolio(ctx context.Context, req *RecomputePortfolioRequest) (*RecomputePortfolioReply, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must not be negative")
	}

	asOf, err := parseOptionalDate("as_of", req.AsOf)
	if err != nil {
		return nil, err
	}
	disbursedBy, err := parseOptionalDate("disbursed_on_or_before", req.DisbursedOnOrBefore)
	if err != nil {
		return nil, err
	}

	result, err := h.recompute.Execute(ctx, dto.RecomputePortfolioRequest{
		AsOf:                asOf,
		DisbursedOnOrBefore: disbursedBy,
		Limit:               int(req.Limit),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &RecomputePortfolioReply{Summary: result}, nil
}

func parseOptionalDate(field, value string) (*civil.Date, error) {
	if value == "" {
		return nil, nil
	}
	d, err := civil.ParseDate(value)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid %s: %v", field, err))
	}
	return &d, nil
}

// toStatus maps application errors onto gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrMissingLoanTerms),
		errors.Is(err, model.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
