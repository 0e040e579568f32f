package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Status represents booking status (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Interval is a half-open time range. Invariant: Start < End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval satisfies Start < End.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Booking represents one reserved interval in one studio on behalf of one
// user. Recurring requests are materialized eagerly: one row per expanded
// occurrence, siblings linked through RecurringGroupID.
type Booking struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	StudioID string    `db:"studio_id"`
	UserID   uuid.UUID `db:"user_id"`
	UserName string    `db:"user_name"`

	StartsAt time.Time `db:"starts_at"`
	EndsAt   time.Time `db:"ends_at"`
	Purpose  string    `db:"purpose"`

	Status Status `db:"status"`

	// Recurrence metadata
	IsRecurring         bool           `db:"is_recurring"`
	RecurringFrequency  sql.NullString `db:"recurring_frequency"`
	RecurringInterval   sql.NullInt32  `db:"recurring_interval"`
	RecurringDaysOfWeek pq.Int32Array  `db:"recurring_days_of_week"`
	RecurringEndDate    sql.NullTime   `db:"recurring_end_date"`
	RecurringGroupID    uuid.NullUUID  `db:"recurring_group_id"`

	// Audit fields. Exactly one group is populated, and only when Status
	// matches: approved -> ApprovedBy/ApprovedAt, rejected ->
	// RejectionReason, cancelled -> CancellationReason/CancelledAt.
	ApprovedBy         uuid.NullUUID  `db:"approved_by"`
	ApprovedAt         sql.NullTime   `db:"approved_at"`
	RejectionReason    sql.NullString `db:"rejection_reason"`
	CancellationReason sql.NullString `db:"cancellation_reason"`
	CancelledAt        sql.NullTime   `db:"cancelled_at"`
}

// Interval returns the booking's reserved time range.
func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartsAt, End: b.EndsAt}
}

// IsObstacle reports whether this booking blocks other candidates.
// Pending bookings count: a slot is soft-locked the moment a request
// exists, so two pending requests cannot both be admitted and later
// double-approved.
func (b *Booking) IsObstacle() bool {
	return b.Status == StatusPending || b.Status == StatusApproved
}

// CanBeEditedBy checks if user owns this booking
func (b *Booking) CanBeEditedBy(userID uuid.UUID) bool {
	return b.UserID == userID
}
