package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/danceflow/danceflow-api/internal/domain/studio"
)

func ival(t *testing.T, date string, start, end string) Interval {
	t.Helper()
	day, err := time.ParseInLocation("2006-01-02", date, time.UTC)
	if err != nil {
		t.Fatalf("bad date %q: %v", date, err)
	}
	i, err := buildInterval(day, start, end)
	if err != nil {
		t.Fatalf("buildInterval(%s, %s, %s): %v", date, start, end, err)
	}
	return i
}

func mustStudio(t *testing.T, id string) studio.Studio {
	t.Helper()
	s, err := studio.Get(id)
	if err != nil {
		t.Fatalf("studio %q: %v", id, err)
	}
	return s
}

func TestIsWeekend(t *testing.T) {
	saturday := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	if !IsWeekend(saturday) || !IsWeekend(sunday) {
		t.Error("Saturday and Sunday must be weekend")
	}
	if IsWeekend(monday) {
		t.Error("Monday must not be weekend")
	}
}

func TestCheckWindowWeekdayBoundary(t *testing.T) {
	big := mustStudio(t, studio.BigHall)

	// 2025-03-10 is a Monday: window 16:00-22:00.
	cases := []struct {
		start, end string
		wantErr    bool
	}{
		{"16:00", "22:00", false}, // exactly fills the window
		{"16:00", "17:30", false},
		{"21:00", "22:00", false}, // ends exactly at close
		{"15:59", "22:00", true},  // starts before open
		{"16:00", "22:01", true},  // ends past close
		{"8:00", "9:00", true},    // weekday morning belongs to classes
		{"20:00", "23:00", true},
	}

	for _, tc := range cases {
		err := CheckWindow(big, ival(t, "2025-03-10", tc.start, tc.end))
		if tc.wantErr && !errors.Is(err, ErrOutsideBusinessHours) {
			t.Errorf("(%s-%s): expected ErrOutsideBusinessHours, got %v", tc.start, tc.end, err)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("(%s-%s): unexpected error %v", tc.start, tc.end, err)
		}
	}
}

func TestCheckWindowWeekend(t *testing.T) {
	big := mustStudio(t, studio.BigHall)

	// 2025-03-08 is a Saturday: window 08:00-22:00.
	if err := CheckWindow(big, ival(t, "2025-03-08", "8:00", "10:00")); err != nil {
		t.Errorf("weekend morning should be allowed: %v", err)
	}
	if err := CheckWindow(big, ival(t, "2025-03-08", "7:00", "9:00")); !errors.Is(err, ErrOutsideBusinessHours) {
		t.Errorf("before weekend open: expected ErrOutsideBusinessHours, got %v", err)
	}
}

func TestCheckWindowOffsite(t *testing.T) {
	offsite := mustStudio(t, studio.Offsite)

	// Offsite is not bound to the weekday class schedule; it gets the
	// full window even on a Monday.
	if err := CheckWindow(offsite, ival(t, "2025-03-10", "9:00", "11:00")); err != nil {
		t.Errorf("offsite weekday morning should be allowed: %v", err)
	}
	if err := CheckWindow(offsite, ival(t, "2025-03-10", "7:00", "9:00")); !errors.Is(err, ErrOutsideBusinessHours) {
		t.Errorf("offsite before 08:00: expected ErrOutsideBusinessHours, got %v", err)
	}
}
