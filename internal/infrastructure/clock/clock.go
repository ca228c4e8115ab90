package clock

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// System reads the wall clock. Today is the calendar date in the configured
// business timezone, not in UTC.
type System struct {
	loc *time.Location
}

// NewSystem returns a clock for the named IANA timezone.
func NewSystem(timezone string) (*System, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	return &System{loc: loc}, nil
}

func (c *System) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *System) Today() civil.Date {
	return civil.DateOf(c.Now())
}

// Location is the business timezone, shared with the batch scheduler.
func (c *System) Location() *time.Location {
	return c.loc
}
