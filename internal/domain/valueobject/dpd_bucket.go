package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// DPDBucket – immutable value object
// ---------------------------------------------------------------------------

// DPDBucket groups a days-past-due count into the arrears bands used for
// portfolio reporting.
type DPDBucket struct {
	value string
}

const (
	dpdBucketCurrent = "CURRENT"
	dpdBucketEarly   = "DPD_1_6"
	dpdBucket7To30   = "DPD_7_30"
	dpdBucket31To60  = "DPD_31_60"
	dpdBucket61To90  = "DPD_61_90"
	dpdBucketOver90  = "DPD_90_PLUS"
)

var (
	DPDBucketCurrent = DPDBucket{value: dpdBucketCurrent}
	DPDBucketEarly   = DPDBucket{value: dpdBucketEarly}
	DPDBucket7To30   = DPDBucket{value: dpdBucket7To30}
	DPDBucket31To60  = DPDBucket{value: dpdBucket31To60}
	DPDBucket61To90  = DPDBucket{value: dpdBucket61To90}
	DPDBucketOver90  = DPDBucket{value: dpdBucketOver90}
)

var validDPDBuckets = map[string]DPDBucket{
	dpdBucketCurrent: DPDBucketCurrent,
	dpdBucketEarly:   DPDBucketEarly,
	dpdBucket7To30:   DPDBucket7To30,
	dpdBucket31To60:  DPDBucket31To60,
	dpdBucket61To90:  DPDBucket61To90,
	dpdBucketOver90:  DPDBucketOver90,
}

// dpdBucketRank orders buckets from healthiest to worst.
var dpdBucketRank = map[string]int{
	dpdBucketCurrent: 0,
	dpdBucketEarly:   1,
	dpdBucket7To30:   2,
	dpdBucket31To60:  3,
	dpdBucket61To90:  4,
	dpdBucketOver90:  5,
}

// NewDPDBucket creates a DPDBucket from a raw string.
func NewDPDBucket(s string) (DPDBucket, error) {
	v, ok := validDPDBuckets[s]
	if !ok {
		return DPDBucket{}, fmt.Errorf("invalid DPD bucket: %q", s)
	}
	return v, nil
}

// DPDBucketFor returns the bucket a days-past-due count falls into.
func DPDBucketFor(dpd int) DPDBucket {
	switch {
	case dpd <= 0:
		return DPDBucketCurrent
	case dpd <= 6:
		return DPDBucketEarly
	case dpd <= 30:
		return DPDBucket7To30
	case dpd <= 60:
		return DPDBucket31To60
	case dpd <= 90:
		return DPDBucket61To90
	default:
		return DPDBucketOver90
	}
}

// String returns the string representation of the bucket.
func (b DPDBucket) String() string { return b.value }

// IsZero returns true if the bucket has not been initialised.
func (b DPDBucket) IsZero() bool { return b.value == "" }

// Equal returns true when both buckets carry the same value.
func (b DPDBucket) Equal(other DPDBucket) bool { return b.value == other.value }

// Rank returns the severity of the bucket, 0 for current loans.
func (b DPDBucket) Rank() int { return dpdBucketRank[b.value] }

// MarshalText implements encoding.TextMarshaler.
func (b DPDBucket) MarshalText() ([]byte, error) { return []byte(b.value), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *DPDBucket) UnmarshalText(text []byte) error {
	v, err := NewDPDBucket(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
