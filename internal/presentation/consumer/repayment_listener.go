package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/LibertytechX/seeds-metrics/internal/application/dto"
	"github.com/LibertytechX/seeds-metrics/internal/domain/model"
	pkgkafka "github.com/LibertytechX/seeds-metrics/pkg/kafka"
)

// SnapshotComputer is satisfied by *usecase.ComputeSnapshotUseCase.
type SnapshotComputer interface {
	Execute(ctx context.Context, req dto.ComputeSnapshotRequest) (dto.SnapshotResponse, error)
}

// RepaymentPosted is the message the loan ledger publishes whenever a
// repayment is recorded or reversed.
type RepaymentPosted struct {
	LoanID      string `json:"loan_id"`
	RepaymentID string `json:"repayment_id"`
	Reversed    bool   `json:"is_reversed"`
}

// RepaymentListener recomputes a loan's snapshot as of today each time one of
// its repayments changes.
type RepaymentListener struct {
	compute SnapshotComputer
	logger  *slog.Logger
}

// NewRepaymentListener wires dependencies.
func NewRepaymentListener(compute SnapshotComputer, logger *slog.Logger) *RepaymentListener {
	return &RepaymentListener{compute: compute, logger: logger}
}

// Handle implements pkgkafka.Handler. Malformed messages and loans without
// terms are logged and acknowledged. Anything else is returned, so the
// consumer retries the message and never commits past it.
func (l *RepaymentListener) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var posted RepaymentPosted
	if err := json.Unmarshal(msg.Value, &posted); err != nil {
		l.logger.WarnContext(ctx, "discarding malformed repayment message", "error", err)
		return nil
	}
	if posted.LoanID == "" {
		posted.LoanID = string(msg.Key)
	}
	if posted.LoanID == "" {
		l.logger.WarnContext(ctx, "discarding repayment message without loan id",
			"repayment_id", posted.RepaymentID,
		)
		return nil
	}

	resp, err := l.compute.Execute(ctx, dto.ComputeSnapshotRequest{LoanID: posted.LoanID})
	if errors.Is(err, model.ErrMissingLoanTerms) {
		l.logger.WarnContext(ctx, "repayment for unknown loan",
			"loan_id", posted.LoanID,
			"repayment_id", posted.RepaymentID,
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("recompute loan %s: %w", posted.LoanID, err)
	}

	l.logger.InfoContext(ctx, "snapshot refreshed after repayment",
		"loan_id", posted.LoanID,
		"repayment_id", posted.RepaymentID,
		"reversed", posted.Reversed,
		"current_dpd", resp.CurrentDPD,
	)
	return nil
}
