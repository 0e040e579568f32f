package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrGroupNotFound             = errors.New("recurring group not found")
	ErrNotBookingOwner           = errors.New("you can only modify your own bookings")
	ErrInvalidInterval           = errors.New("end time must be after start time")
	ErrOutsideBusinessHours      = errors.New("interval is outside studio business hours")
	ErrInvalidStateTransition    = errors.New("invalid booking state transition")
	ErrCancellationWindowExpired = errors.New("cancellation window expired, contact an administrator")
	ErrEmptyRecurringSeries      = errors.New("recurring pattern produces no occurrences")
	ErrNotPendingEditable        = errors.New("only pending bookings can be edited")
)

// ConflictError carries human-readable descriptions of the overlapping
// reservations so the caller can display them.
type ConflictError struct {
	Conflicts []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict with: %s", strings.Join(e.Conflicts, "; "))
}

// IsConflict reports whether err is a scheduling conflict and returns it.
func IsConflict(err error) (*ConflictError, bool) {
	var ce *ConflictError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
