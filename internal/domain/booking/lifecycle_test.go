package booking

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestApproveStampsAudit(t *testing.T) {
	b := &Booking{Status: StatusPending}
	admin := uuid.New()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := Approve(b, admin, now); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if b.Status != StatusApproved {
		t.Errorf("status = %s", b.Status)
	}
	if !b.ApprovedBy.Valid || b.ApprovedBy.UUID != admin {
		t.Error("ApprovedBy not stamped")
	}
	if !b.ApprovedAt.Valid || !b.ApprovedAt.Time.Equal(now) {
		t.Error("ApprovedAt not stamped")
	}
	if !b.UpdatedAt.Equal(now) {
		t.Error("UpdatedAt not touched")
	}
	if b.RejectionReason.Valid || b.CancellationReason.Valid || b.CancelledAt.Valid {
		t.Error("approval must not stamp rejection or cancellation fields")
	}
}

func TestRejectDefaultsReason(t *testing.T) {
	b := &Booking{Status: StatusPending}
	now := time.Now().UTC()

	if err := Reject(b, "", now); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if b.Status != StatusRejected {
		t.Errorf("status = %s", b.Status)
	}
	if !b.RejectionReason.Valid || b.RejectionReason.String != DefaultRejectionReason {
		t.Errorf("rejection reason = %+v", b.RejectionReason)
	}
	if b.ApprovedBy.Valid || b.ApprovedAt.Valid {
		t.Error("rejection must not stamp approval fields")
	}
}

func TestCancelFromApproved(t *testing.T) {
	b := &Booking{Status: StatusApproved}
	now := time.Now().UTC()

	if err := Cancel(b, "studio closed for maintenance", now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != StatusCancelled {
		t.Errorf("status = %s", b.Status)
	}
	if !b.CancellationReason.Valid || !b.CancelledAt.Valid {
		t.Error("cancellation fields not stamped")
	}
}

// From pending only approved/rejected/cancelled are reachable; from
// approved only cancelled; rejected and cancelled are terminal.
func TestLifecycleExhaustive(t *testing.T) {
	now := time.Now().UTC()
	admin := uuid.New()

	transitions := map[string]func(*Booking) error{
		"approve": func(b *Booking) error { return Approve(b, admin, now) },
		"reject":  func(b *Booking) error { return Reject(b, "no", now) },
		"cancel":  func(b *Booking) error { return Cancel(b, "bye", now) },
	}

	allowed := map[Status]map[string]bool{
		StatusPending:   {"approve": true, "reject": true, "cancel": true},
		StatusApproved:  {"cancel": true},
		StatusRejected:  {},
		StatusCancelled: {},
	}

	for from, ok := range allowed {
		for name, apply := range transitions {
			b := &Booking{Status: from}
			err := apply(b)
			if ok[name] && err != nil {
				t.Errorf("%s from %s: unexpected error %v", name, from, err)
			}
			if !ok[name] {
				if !errors.Is(err, ErrInvalidStateTransition) {
					t.Errorf("%s from %s: expected ErrInvalidStateTransition, got %v", name, from, err)
				}
				if b.Status != from {
					t.Errorf("%s from %s: status mutated to %s on failed transition", name, from, b.Status)
				}
			}
		}
	}
}

func TestCancellationPolicy(t *testing.T) {
	policy := CancellationPolicy{NoticeHours: 24}
	now := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	if err := policy.Check(now.Add(25*time.Hour), now); err != nil {
		t.Errorf("25h notice should pass: %v", err)
	}
	if err := policy.Check(now.Add(24*time.Hour), now); err != nil {
		t.Errorf("exactly 24h notice should pass: %v", err)
	}
	if err := policy.Check(now.Add(23*time.Hour), now); !errors.Is(err, ErrCancellationWindowExpired) {
		t.Errorf("23h notice: expected ErrCancellationWindowExpired, got %v", err)
	}
}
