package booking

import "time"

// CancellationPolicy restricts member-initiated cancellations to a
// minimum-notice window. Administrators are never subject to it.
type CancellationPolicy struct {
	NoticeHours int
}

// Check returns ErrCancellationWindowExpired when the booking starts too
// soon for a member to cancel it themselves.
func (p CancellationPolicy) Check(bookingStart, now time.Time) error {
	notice := time.Duration(p.NoticeHours) * time.Hour
	if bookingStart.Sub(now) < notice {
		return ErrCancellationWindowExpired
	}
	return nil
}
