package service

import (
	"time"

	"cloud.google.com/go/civil"
)

// BusinessDaysBetween counts the Monday-to-Friday dates in [start, end],
// both ends inclusive. It returns 0 when either date is unknown or when end
// precedes start. No holiday calendar is applied.
func BusinessDaysBetween(start, end *civil.Date) int {
	if start == nil || end == nil || end.Before(*start) {
		return 0
	}

	span := end.DaysSince(*start) + 1
	weeks := span / 7
	count := weeks * 5

	d := start.AddDays(weeks * 7)
	for i := 0; i < span%7; i++ {
		if isBusinessDay(d) {
			count++
		}
		d = d.AddDays(1)
	}
	return count
}

func isBusinessDay(d civil.Date) bool {
	switch d.In(time.UTC).Weekday() {
	case time.Saturday, time.Sunday:
		return false
	default:
		return true
	}
}

// daysBetween returns end - start in calendar days, or nil when start is
// unknown.
func daysBetween(start *civil.Date, end civil.Date) *int {
	if start == nil {
		return nil
	}
	days := end.DaysSince(*start)
	return &days
}
