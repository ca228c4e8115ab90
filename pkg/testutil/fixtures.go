package testutil

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Fixed identifiers for deterministic testing.
const (
	TestLoanID1 = "LN-0000001"
	TestLoanID2 = "LN-0000002"
	TestLoanID3 = "LN-0000003"
)

// Date builds a calendar date.
func Date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// DatePtr builds a pointer to a calendar date.
func DatePtr(y int, m time.Month, d int) *civil.Date {
	v := Date(y, m, d)
	return &v
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
