package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danceflow/danceflow-api/internal/domain/event"
)

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{"10:00", "11:00", "10:30", "11:30", true},
		{"10:00", "12:00", "10:30", "11:00", true}, // containment
		{"10:00", "11:00", "11:00", "12:00", false},
		{"10:00", "11:00", "12:00", "13:00", false},
		{"10:00", "11:00", "10:00", "11:00", true}, // identical
	}

	for _, tc := range cases {
		a := ival(t, "2025-03-10", tc.aStart, tc.aEnd)
		b := ival(t, "2025-03-10", tc.bStart, tc.bEnd)

		if got := Overlaps(a, b); got != tc.want {
			t.Errorf("Overlaps(%s-%s, %s-%s) = %v, want %v", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd, got, tc.want)
		}
		if Overlaps(a, b) != Overlaps(b, a) {
			t.Errorf("Overlaps not symmetric for (%s-%s, %s-%s)", tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
		}
	}
}

func TestTouchingIntervalsDoNotConflict(t *testing.T) {
	first := ival(t, "2025-03-10", "10:00", "11:00")
	second := ival(t, "2025-03-10", "11:00", "12:00")

	obstacles := []Obstacle{{Interval: first, Description: "Booking: Alice"}}
	if HasConflict(second, obstacles) {
		t.Error("back-to-back intervals must not conflict")
	}
}

func TestDetectConflictsDescriptions(t *testing.T) {
	now := time.Now().UTC()
	events := []*event.Event{
		{
			ID:       uuid.New(),
			StudioID: "studio-1-big",
			Title:    "Ballet Beginners",
			StartsAt: now,
			EndsAt:   now.Add(time.Hour),
		},
	}
	bookings := []*Booking{
		{
			ID:       uuid.New(),
			UserName: "Alice",
			Status:   StatusPending,
			StartsAt: now.Add(2 * time.Hour),
			EndsAt:   now.Add(3 * time.Hour),
		},
		{
			ID:       uuid.New(),
			UserName: "Bob",
			Status:   StatusCancelled, // never an obstacle
			StartsAt: now,
			EndsAt:   now.Add(4 * time.Hour),
		},
		{
			ID:       uuid.New(),
			UserName: "Carol",
			Status:   StatusRejected, // never an obstacle
			StartsAt: now,
			EndsAt:   now.Add(4 * time.Hour),
		},
	}

	obstacles := BuildObstacles(events, bookings, "")
	if len(obstacles) != 2 {
		t.Fatalf("expected 2 obstacles (event + pending booking), got %d", len(obstacles))
	}

	candidate := Interval{Start: now, End: now.Add(4 * time.Hour)}
	conflicts := DetectConflicts(candidate, obstacles)
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d: %v", len(conflicts), conflicts)
	}
	if conflicts[0] != "Event: Ballet Beginners" {
		t.Errorf("unexpected event description: %q", conflicts[0])
	}
	if conflicts[1] != "Booking: Alice" {
		t.Errorf("unexpected booking description: %q", conflicts[1])
	}
}

func TestBuildObstaclesExcludesCandidate(t *testing.T) {
	id := uuid.New()
	bookings := []*Booking{
		{
			ID:       id,
			UserName: "Alice",
			Status:   StatusPending,
			StartsAt: time.Now().UTC(),
			EndsAt:   time.Now().UTC().Add(time.Hour),
		},
	}

	if got := BuildObstacles(nil, bookings, id.String()); len(got) != 0 {
		t.Errorf("editing a booking must not conflict with itself, got %d obstacles", len(got))
	}
}
