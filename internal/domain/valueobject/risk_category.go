package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// RiskCategory – immutable value object
// ---------------------------------------------------------------------------

// RiskCategory is the coarse band a loan-level risk score falls into.
type RiskCategory struct {
	value string
}

const (
	riskLow    = "LOW"
	riskMedium = "MEDIUM"
	riskHigh   = "HIGH"
)

var (
	RiskCategoryLow    = RiskCategory{value: riskLow}
	RiskCategoryMedium = RiskCategory{value: riskMedium}
	RiskCategoryHigh   = RiskCategory{value: riskHigh}
)

var validRiskCategories = map[string]RiskCategory{
	riskLow:    RiskCategoryLow,
	riskMedium: RiskCategoryMedium,
	riskHigh:   RiskCategoryHigh,
}

// Score thresholds, inclusive.
const (
	riskHighThreshold   = 60
	riskMediumThreshold = 30
)

// NewRiskCategory creates a RiskCategory from a raw string.
func NewRiskCategory(s string) (RiskCategory, error) {
	v, ok := validRiskCategories[s]
	if !ok {
		return RiskCategory{}, fmt.Errorf("invalid risk category: %q", s)
	}
	return v, nil
}

// RiskCategoryFor maps a 0-100 risk score to its category.
func RiskCategoryFor(score int) RiskCategory {
	switch {
	case score >= riskHighThreshold:
		return RiskCategoryHigh
	case score >= riskMediumThreshold:
		return RiskCategoryMedium
	default:
		return RiskCategoryLow
	}
}

// String returns the string representation of the category.
func (c RiskCategory) String() string { return c.value }

// IsZero returns true if the category has not been initialised.
func (c RiskCategory) IsZero() bool { return c.value == "" }

// Equal returns true when both categories carry the same value.
func (c RiskCategory) Equal(other RiskCategory) bool { return c.value == other.value }

// MarshalText implements encoding.TextMarshaler.
func (c RiskCategory) MarshalText() ([]byte, error) { return []byte(c.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RiskCategory) UnmarshalText(text []byte) error {
	v, err := NewRiskCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
