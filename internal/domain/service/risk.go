package service

import (
	"github.com/shopspring/decimal"

	"github.com/LibertytechX/seeds-metrics/internal/domain/valueobject"
)

// RiskInput carries the snapshot fields the loan risk score is built from.
type RiskInput struct {
	CurrentDPD       int
	MaxDPDEver       int
	TotalOutstanding decimal.Decimal
	FIMRTagged       bool
	LoanAge          *int
}

type band struct {
	floor  int64
	points int
}

// Bands are checked top-down; the first floor reached wins.
var currentDPDBands = []band{{90, 40}, {60, 35}, {30, 30}, {15, 25}, {7, 15}, {1, 10}}

var maxDPDBands = []band{{90, 10}, {60, 8}, {30, 6}, {15, 4}}

var outstandingBands = []band{
	{5_000_000, 30},
	{3_000_000, 25},
	{2_000_000, 20},
	{1_000_000, 15},
	{500_000, 10},
}

const (
	fimrPoints           = 15
	minOutstandingPoints = 5
	youngLoanDays        = 30
	youngLoanPoints      = 5
	recentLoanDays       = 60
	recentLoanPoints     = 3
)

// ScoreLoanRisk returns a 0-100 weighted risk score and its category.
// Weights: current DPD 40, outstanding balance 30, FIMR 15, worst DPD ever
// 10, and 5 for a young loan already in arrears.
func ScoreLoanRisk(in RiskInput) (int, valueobject.RiskCategory) {
	score := pointsFor(int64(in.CurrentDPD), currentDPDBands) +
		outstandingPoints(in.TotalOutstanding) +
		pointsFor(int64(in.MaxDPDEver), maxDPDBands)

	if in.FIMRTagged {
		score += fimrPoints
	}

	if in.CurrentDPD > 0 && in.LoanAge != nil {
		switch {
		case *in.LoanAge <= youngLoanDays:
			score += youngLoanPoints
		case *in.LoanAge <= recentLoanDays:
			score += recentLoanPoints
		}
	}

	return score, valueobject.RiskCategoryFor(score)
}

func pointsFor(v int64, bands []band) int {
	for _, b := range bands {
		if v >= b.floor {
			return b.points
		}
	}
	return 0
}

func outstandingPoints(total decimal.Decimal) int {
	for _, b := range outstandingBands {
		if total.GreaterThanOrEqual(decimal.NewFromInt(b.floor)) {
			return b.points
		}
	}
	return minOutstandingPoints
}
