package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Event represents a non-booking reservation occupying a studio interval,
// typically a scheduled class. Events participate in conflict detection
// exactly like pending/approved bookings but have no approval lifecycle.
type Event struct {
	ID        uuid.UUID `db:"id"`
	StudioID  string    `db:"studio_id"`
	Title     string    `db:"title"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	CreatedBy uuid.UUID `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

var ErrEventNotFound = errors.New("event not found")

// EventResponse for API response
type EventResponse struct {
	ID       string `json:"id"`
	StudioID string `json:"studio_id"`
	Title    string `json:"title"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
}

// ToResponse converts entity to response
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:       e.ID.String(),
		StudioID: e.StudioID,
		Title:    e.Title,
		StartsAt: e.StartsAt.Format(time.RFC3339),
		EndsAt:   e.EndsAt.Format(time.RFC3339),
	}
}

// CreateRequest for creating an event
type CreateRequest struct {
	StudioID string `json:"studio_id" validate:"required"`
	Title    string `json:"title" validate:"required,max=200"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Start    string `json:"start" validate:"required"`
	End      string `json:"end" validate:"required"`
}
