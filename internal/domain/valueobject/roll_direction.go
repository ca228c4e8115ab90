package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// RollDirection – immutable value object
// ---------------------------------------------------------------------------

// RollDirection describes how a loan's arrears moved between two evaluations.
type RollDirection struct {
	value string
}

const (
	rollWorsening = "Worsening"
	rollImproving = "Improving"
	rollStable    = "Stable"
)

var (
	RollDirectionWorsening = RollDirection{value: rollWorsening}
	RollDirectionImproving = RollDirection{value: rollImproving}
	RollDirectionStable    = RollDirection{value: rollStable}
)

var validRollDirections = map[string]RollDirection{
	rollWorsening: RollDirectionWorsening,
	rollImproving: RollDirectionImproving,
	rollStable:    RollDirectionStable,
}

// NewRollDirection creates a RollDirection from a raw string.
func NewRollDirection(s string) (RollDirection, error) {
	v, ok := validRollDirections[s]
	if !ok {
		return RollDirection{}, fmt.Errorf("invalid roll direction: %q", s)
	}
	return v, nil
}

// RollDirectionBetween compares the previous and current DPD of a loan.
func RollDirectionBetween(previousDPD, currentDPD int) RollDirection {
	switch {
	case currentDPD > previousDPD:
		return RollDirectionWorsening
	case currentDPD < previousDPD:
		return RollDirectionImproving
	default:
		return RollDirectionStable
	}
}

// String returns the string representation of the direction.
func (r RollDirection) String() string { return r.value }

// IsZero returns true if the direction has not been initialised.
func (r RollDirection) IsZero() bool { return r.value == "" }

// Equal returns true when both directions carry the same value.
func (r RollDirection) Equal(other RollDirection) bool { return r.value == other.value }
