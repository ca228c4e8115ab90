package service_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"

	"github.com/LibertytechX/seeds-metrics/internal/domain/service"
)

func TestBusinessDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start *civil.Date
		end   *civil.Date
		want  int
	}{
		{name: "monday to friday", start: dayPtr(2024, 1, 1), end: dayPtr(2024, 1, 5), want: 5},
		{name: "full week", start: dayPtr(2024, 1, 1), end: dayPtr(2024, 1, 7), want: 5},
		{name: "weekend only", start: dayPtr(2024, 1, 6), end: dayPtr(2024, 1, 7), want: 0},
		{name: "week and a day", start: dayPtr(2024, 1, 1), end: dayPtr(2024, 1, 8), want: 6},
		{name: "same weekday", start: dayPtr(2024, 1, 3), end: dayPtr(2024, 1, 3), want: 1},
		{name: "same saturday", start: dayPtr(2024, 1, 6), end: dayPtr(2024, 1, 6), want: 0},
		{name: "january 2024", start: dayPtr(2024, 1, 1), end: dayPtr(2024, 1, 31), want: 23},
		{name: "across leap day", start: dayPtr(2024, 2, 26), end: dayPtr(2024, 3, 4), want: 6},
		{name: "end before start", start: dayPtr(2024, 1, 10), end: dayPtr(2024, 1, 1), want: 0},
		{name: "missing start", start: nil, end: dayPtr(2024, 1, 1), want: 0},
		{name: "missing end", start: dayPtr(2024, 1, 1), end: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.BusinessDaysBetween(tt.start, tt.end))
		})
	}
}

func TestBusinessDaysBetween_MatchesDayByDayCount(t *testing.T) {
	start := day(2023, 12, 27)
	for offset := 0; offset < 60; offset++ {
		for span := 0; span < 40; span++ {
			from := start.AddDays(offset)
			to := from.AddDays(span)

			want := 0
			for d := from; !d.After(to); d = d.AddDays(1) {
				if wd := d.In(time.UTC).Weekday(); wd != time.Saturday && wd != time.Sunday {
					want++
				}
			}

			assert.Equal(t, want, service.BusinessDaysBetween(&from, &to), "from %s to %s", from, to)
		}
	}
}
