package booking

import (
	"errors"
	"time"
)

// Frequency represents the recurrence period kind.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

var (
	ErrInvalidFrequency = errors.New("invalid recurrence frequency")
	ErrInvalidPattern   = errors.New("invalid recurrence pattern")
)

// Pattern describes a recurring booking request.
type Pattern struct {
	Frequency  Frequency
	Interval   int // every N periods
	DaysOfWeek []time.Weekday
	EndDate    time.Time
}

// Validate checks pattern invariants.
func (p Pattern) Validate() error {
	switch p.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
	default:
		return ErrInvalidFrequency
	}
	if p.Interval < 1 {
		return ErrInvalidPattern
	}
	for _, d := range p.DaysOfWeek {
		if d < time.Sunday || d > time.Saturday {
			return ErrInvalidPattern
		}
	}
	return nil
}

// Expand produces the ordered, finite sequence of occurrence dates from
// startDate through the pattern's end date inclusive. Dates are midnight
// UTC; callers recombine them with the series' time of day.
//
// Weekly patterns with a weekday filter walk day by day and emit on the
// selected weekdays of every Interval-th week, so a Mon+Wed series yields
// both days of each active week. Without a filter the cursor jumps whole
// periods.
func (p Pattern) Expand(startDate time.Time) ([]time.Time, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	start := midnightUTC(startDate)
	end := midnightUTC(p.EndDate)
	if end.Before(start) {
		return nil, ErrInvalidPattern
	}

	var dates []time.Time

	switch p.Frequency {
	case FrequencyDaily:
		filter := weekdaySet(p.DaysOfWeek)
		for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, p.Interval) {
			if len(filter) == 0 || filter[cur.Weekday()] {
				dates = append(dates, cur)
			}
		}

	case FrequencyWeekly:
		filter := weekdaySet(p.DaysOfWeek)
		if len(filter) == 0 {
			for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 7*p.Interval) {
				dates = append(dates, cur)
			}
			break
		}
		for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
			week := int(cur.Sub(start).Hours()) / (24 * 7)
			if week%p.Interval == 0 && filter[cur.Weekday()] {
				dates = append(dates, cur)
			}
		}

	case FrequencyMonthly:
		for cur := start; !cur.After(end); cur = cur.AddDate(0, p.Interval, 0) {
			dates = append(dates, cur)
		}
	}

	return dates, nil
}

func weekdaySet(days []time.Weekday) map[time.Weekday]bool {
	if len(days) == 0 {
		return nil
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
