package booking

import "time"

// RecurringRequest describes the recurrence of a booking request.
type RecurringRequest struct {
	Frequency  string `json:"frequency" validate:"required,frequency"`
	Interval   int    `json:"interval" validate:"required,gte=1,lte=52"`
	DaysOfWeek []int  `json:"days_of_week" validate:"omitempty,dive,gte=0,lte=6"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

// CreateBookingRequest represents a booking request from the client.
// Start and End accept free-form time text ("5 pm", "17,00", "17").
type CreateBookingRequest struct {
	StudioID string `json:"studio_id" validate:"required"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Start    string `json:"start" validate:"required"`
	End      string `json:"end" validate:"required"`
	Purpose  string `json:"purpose" validate:"required,max=500"`

	Recurring *RecurringRequest `json:"recurring,omitempty"`
	// SkipConflicts admits only the conflict-free occurrences of a
	// recurring series instead of rejecting the whole series.
	SkipConflicts bool `json:"skip_conflicts,omitempty"`
}

// UpdateBookingRequest edits a pending booking. Nil fields are unchanged.
type UpdateBookingRequest struct {
	Date    *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Start   *string `json:"start,omitempty"`
	End     *string `json:"end,omitempty"`
	Purpose *string `json:"purpose,omitempty" validate:"omitempty,max=500"`
}

// RejectRequest carries the admin's rejection reason.
type RejectRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// CancelRequest carries the cancellation reason.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// BookingResponse for API response
type BookingResponse struct {
	ID       string `json:"id"`
	StudioID string `json:"studio_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	StartsAt string `json:"starts_at"`
	EndsAt   string `json:"ends_at"`
	Purpose  string `json:"purpose"`
	Status   string `json:"status"`

	IsRecurring      bool    `json:"is_recurring"`
	RecurringGroupID *string `json:"recurring_group_id,omitempty"`

	ApprovedBy         *string `json:"approved_by,omitempty"`
	ApprovedAt         *string `json:"approved_at,omitempty"`
	RejectionReason    *string `json:"rejection_reason,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ToResponse converts entity to response
func (b *Booking) ToResponse() *BookingResponse {
	resp := &BookingResponse{
		ID:          b.ID.String(),
		StudioID:    b.StudioID,
		UserID:      b.UserID.String(),
		UserName:    b.UserName,
		StartsAt:    b.StartsAt.Format(time.RFC3339),
		EndsAt:      b.EndsAt.Format(time.RFC3339),
		Purpose:     b.Purpose,
		Status:      string(b.Status),
		IsRecurring: b.IsRecurring,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
	if b.RecurringGroupID.Valid {
		s := b.RecurringGroupID.UUID.String()
		resp.RecurringGroupID = &s
	}
	if b.ApprovedBy.Valid {
		s := b.ApprovedBy.UUID.String()
		resp.ApprovedBy = &s
	}
	if b.ApprovedAt.Valid {
		s := b.ApprovedAt.Time.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if b.RejectionReason.Valid {
		resp.RejectionReason = &b.RejectionReason.String
	}
	if b.CancellationReason.Valid {
		resp.CancellationReason = &b.CancellationReason.String
	}
	if b.CancelledAt.Valid {
		s := b.CancelledAt.Time.Format(time.RFC3339)
		resp.CancelledAt = &s
	}
	return resp
}

// GroupActionResponse reports a bulk series transition.
type GroupActionResponse struct {
	GroupID  string `json:"group_id"`
	Status   string `json:"status"`
	Affected int    `json:"affected"`
}

// SeriesResponse reports a created recurring series.
type SeriesResponse struct {
	GroupID  string             `json:"group_id"`
	Bookings []*BookingResponse `json:"bookings"`
	Skipped  []string           `json:"skipped_dates,omitempty"`
}

// FreeSlot is one available range inside the business-hours window.
type FreeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityResponse is the derived free-slot projection for a
// studio/day.
type AvailabilityResponse struct {
	StudioID string     `json:"studio_id"`
	Date     string     `json:"date"`
	Window   string     `json:"window"`
	Free     []FreeSlot `json:"free"`
}
