package booking

import (
	"fmt"

	"github.com/danceflow/danceflow-api/internal/domain/event"
)

// Obstacle is an existing reservation a candidate interval is checked
// against: a calendar event or a pending/approved booking.
type Obstacle struct {
	Interval    Interval
	Description string
}

// Overlaps implements the half-open overlap test: touching endpoints do
// not conflict, so back-to-back reservations are always admissible.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// HasConflict reports whether the candidate overlaps any obstacle,
// short-circuiting on the first hit.
func HasConflict(candidate Interval, obstacles []Obstacle) bool {
	for _, o := range obstacles {
		if Overlaps(candidate, o.Interval) {
			return true
		}
	}
	return false
}

// DetectConflicts returns descriptions of every obstacle the candidate
// overlaps, for user-facing diagnostics. Empty means the slot is free.
func DetectConflicts(candidate Interval, obstacles []Obstacle) []string {
	var conflicts []string
	for _, o := range obstacles {
		if Overlaps(candidate, o.Interval) {
			conflicts = append(conflicts, o.Description)
		}
	}
	return conflicts
}

// BuildObstacles materializes the obstacle set from a studio/day snapshot.
// Cancelled and rejected bookings never participate; a booking with
// excludeID (the candidate itself, when editing) is skipped.
func BuildObstacles(events []*event.Event, bookings []*Booking, excludeID string) []Obstacle {
	obstacles := make([]Obstacle, 0, len(events)+len(bookings))

	for _, e := range events {
		obstacles = append(obstacles, Obstacle{
			Interval:    Interval{Start: e.StartsAt, End: e.EndsAt},
			Description: fmt.Sprintf("Event: %s", e.Title),
		})
	}

	for _, b := range bookings {
		if !b.IsObstacle() {
			continue
		}
		if excludeID != "" && b.ID.String() == excludeID {
			continue
		}
		obstacles = append(obstacles, Obstacle{
			Interval:    b.Interval(),
			Description: fmt.Sprintf("Booking: %s", b.UserName),
		})
	}

	return obstacles
}
