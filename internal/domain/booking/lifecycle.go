package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DefaultRejectionReason is stamped when the admin supplies none.
const DefaultRejectionReason = "Rejected by administrator"

// Approve transitions pending -> approved, stamping the approver identity.
// Conflict detection is deliberately not re-run here: the original
// admission check is trusted (see the service's admission pipeline).
func Approve(b *Booking, approver uuid.UUID, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidStateTransition
	}
	b.Status = StatusApproved
	b.ApprovedBy = uuid.NullUUID{UUID: approver, Valid: true}
	b.ApprovedAt = sql.NullTime{Time: now, Valid: true}
	b.UpdatedAt = now
	return nil
}

// Reject transitions pending -> rejected with a reason.
func Reject(b *Booking, reason string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidStateTransition
	}
	if reason == "" {
		reason = DefaultRejectionReason
	}
	b.Status = StatusRejected
	b.RejectionReason = sql.NullString{String: reason, Valid: true}
	b.UpdatedAt = now
	return nil
}

// Cancel transitions pending|approved -> cancelled. A single occurrence of
// a recurring series can be cancelled independently of its siblings; the
// series metadata is left untouched.
func Cancel(b *Booking, reason string, now time.Time) error {
	if b.Status != StatusPending && b.Status != StatusApproved {
		return ErrInvalidStateTransition
	}
	b.Status = StatusCancelled
	b.CancellationReason = sql.NullString{String: reason, Valid: true}
	b.CancelledAt = sql.NullTime{Time: now, Valid: true}
	b.UpdatedAt = now
	return nil
}
