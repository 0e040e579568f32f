package booking

import (
	"time"

	"github.com/danceflow/danceflow-api/internal/domain/studio"
)

// Window is the allowed booking window for one calendar day, expressed in
// whole hours. A booking may end exactly at Close:00 but not later; it may
// not start before Open.
type Window struct {
	Open  int
	Close int
}

const (
	weekdayOpen = 16
	weekendOpen = 8
	closeHour   = 22
)

// IsWeekend reports whether the date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// WindowFor returns the allowed booking window for a studio on a date.
// Weekdays open at 16:00 (daytime belongs to the class schedule), weekends
// at 08:00. The offsite pseudo-studio is not tied to the class schedule and
// gets the full 08:00-22:00 window every day.
func WindowFor(s studio.Studio, date time.Time) Window {
	if s.Offsite || IsWeekend(date) {
		return Window{Open: weekendOpen, Close: closeHour}
	}
	return Window{Open: weekdayOpen, Close: closeHour}
}

// CheckWindow validates a candidate interval against the studio's window
// for the interval's date. The end boundary is inclusive only at exactly
// Close:00: an interval ending at 22:00 is valid, one ending 22:01 is not.
func CheckWindow(s studio.Studio, ival Interval) error {
	w := WindowFor(s, ival.Start)

	if ival.Start.Hour() < w.Open {
		return ErrOutsideBusinessHours
	}
	if ival.End.Hour() > w.Close {
		return ErrOutsideBusinessHours
	}
	if ival.End.Hour() == w.Close && ival.End.Minute() != 0 {
		return ErrOutsideBusinessHours
	}
	return nil
}
