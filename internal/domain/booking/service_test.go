package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danceflow/danceflow-api/internal/domain/event"
	"github.com/danceflow/danceflow-api/internal/domain/studio"
)

type fakeRepo struct {
	bookings map[uuid.UUID]*Booking

	createErr      error
	updateBatchErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeRepo) Create(_ context.Context, b *Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeRepo) CreateBatch(_ context.Context, bookings []*Booking) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, b := range bookings {
		clone := *b
		f.bookings[b.ID] = &clone
	}
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeRepo) ListByStudioDay(_ context.Context, studioID string, dayStart, dayEnd time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.StudioID == studioID && b.StartsAt.Before(dayEnd) && b.EndsAt.After(dayStart) {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByGroup(_ context.Context, groupID uuid.UUID) ([]*Booking, error) {
	var out []*Booking
	for _, b := range f.bookings {
		if b.RecurringGroupID.Valid && b.RecurringGroupID.UUID == groupID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, b *Booking) error {
	if _, ok := f.bookings[b.ID]; !ok {
		return ErrBookingNotFound
	}
	clone := *b
	f.bookings[b.ID] = &clone
	return nil
}

func (f *fakeRepo) UpdateBatch(_ context.Context, bookings []*Booking) error {
	if f.updateBatchErr != nil {
		return f.updateBatchErr
	}
	for _, b := range bookings {
		if _, ok := f.bookings[b.ID]; !ok {
			return ErrBookingNotFound
		}
	}
	for _, b := range bookings {
		clone := *b
		f.bookings[b.ID] = &clone
	}
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(f.bookings, id)
	return nil
}

type fakeEvents struct {
	events []*event.Event
}

func (f *fakeEvents) ListByStudioDay(_ context.Context, studioID string, dayStart, dayEnd time.Time) ([]*event.Event, error) {
	var out []*event.Event
	for _, e := range f.events {
		if e.StudioID == studioID && e.StartsAt.Before(dayEnd) && e.EndsAt.After(dayStart) {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService(repo *fakeRepo, events *fakeEvents) *Service {
	svc := NewService(repo, events, NewSnapshotCache(nil, 0), CancellationPolicy{NoticeHours: 24})
	svc.now = func() time.Time {
		return time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

// Three members racing for overlapping Monday-evening slots: the first
// claims 16:00-17:30, the second overlaps it and loses, the third starts
// exactly where the first ends and wins.
func TestCreateFirstComeFirstServed(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()

	first, err := svc.Create(ctx, uuid.New(), "Aigerim", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "4pm",
		End:      "5:30pm",
		Purpose:  "salsa practice",
	})
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if first.Status != StatusPending {
		t.Errorf("first request status = %s, want pending", first.Status)
	}

	_, err = svc.Create(ctx, uuid.New(), "Bella", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "17:00",
		End:      "18:00",
		Purpose:  "bachata",
	})
	ce, ok := IsConflict(err)
	if !ok {
		t.Fatalf("second request: expected conflict, got %v", err)
	}
	if len(ce.Conflicts) != 1 || ce.Conflicts[0] != "Booking: Aigerim" {
		t.Errorf("conflicts = %v", ce.Conflicts)
	}

	third, err := svc.Create(ctx, uuid.New(), "Carla", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "17:30",
		End:      "18:30",
		Purpose:  "contemporary",
	})
	if err != nil {
		t.Fatalf("third request (touching interval): %v", err)
	}
	if third.Status != StatusPending {
		t.Errorf("third request status = %s", third.Status)
	}
}

func TestCreateOutsideBusinessHours(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeEvents{})

	// 2025-03-10 is a Monday; the hall opens at 16:00.
	_, err := svc.Create(context.Background(), uuid.New(), "Dina", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "10:00",
		End:      "11:00",
	})
	if !errors.Is(err, ErrOutsideBusinessHours) {
		t.Fatalf("expected ErrOutsideBusinessHours, got %v", err)
	}
}

func TestCreateConflictsWithEvent(t *testing.T) {
	events := &fakeEvents{events: []*event.Event{{
		ID:       uuid.New(),
		StudioID: studio.BigHall,
		Title:    "Spring Showcase",
		StartsAt: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC),
	}}}
	svc := newTestService(newFakeRepo(), events)

	_, err := svc.Create(context.Background(), uuid.New(), "Erik", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "19:00",
		End:      "20:00",
	})
	ce, ok := IsConflict(err)
	if !ok {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(ce.Conflicts) != 1 || ce.Conflicts[0] != "Event: Spring Showcase" {
		t.Errorf("conflicts = %v", ce.Conflicts)
	}
}

func TestCreateMalformedTime(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeEvents{})

	_, err := svc.Create(context.Background(), uuid.New(), "Fay", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "25pm",
		End:      "18:00",
	})
	if err == nil {
		t.Fatal("expected error for malformed start time")
	}
}

func TestCreateRecurringSeries(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})

	bookings, skipped, err := svc.CreateRecurring(context.Background(), uuid.New(), "Gia", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-01-01",
		Start:    "18:00",
		End:      "19:00",
		Purpose:  "weekly class",
		Recurring: &RecurringRequest{
			Frequency:  "weekly",
			Interval:   1,
			DaysOfWeek: []int{1, 3},
			EndDate:    "2025-01-31",
		},
	})
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
	if len(bookings) != 9 {
		t.Fatalf("got %d occurrences, want 9", len(bookings))
	}

	groupID := bookings[0].RecurringGroupID
	if !groupID.Valid {
		t.Fatal("group id not assigned")
	}
	for _, b := range bookings {
		if b.RecurringGroupID != groupID {
			t.Error("siblings carry different group ids")
		}
		if !b.IsRecurring || b.Status != StatusPending {
			t.Errorf("sibling %s: recurring=%v status=%s", b.ID, b.IsRecurring, b.Status)
		}
	}
	if len(repo.bookings) != 9 {
		t.Errorf("store has %d rows, want 9", len(repo.bookings))
	}
}

func TestCreateRecurringConflictRejectsSeries(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()

	// Occupy one Wednesday in the middle of the series.
	if _, err := svc.Create(ctx, uuid.New(), "Hana", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-01-15",
		Start:    "18:00",
		End:      "19:00",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	req := &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-01-01",
		Start:    "18:00",
		End:      "19:00",
		Recurring: &RecurringRequest{
			Frequency:  "weekly",
			Interval:   1,
			DaysOfWeek: []int{1, 3},
			EndDate:    "2025-01-31",
		},
	}

	_, _, err := svc.CreateRecurring(ctx, uuid.New(), "Ivan", req)
	if _, ok := IsConflict(err); !ok {
		t.Fatalf("expected conflict rejecting the whole series, got %v", err)
	}
	if len(repo.bookings) != 1 {
		t.Errorf("store has %d rows after rejected series, want only the seed", len(repo.bookings))
	}

	// With skip_conflicts the free occurrences are admitted and the
	// occupied date reported back.
	req.SkipConflicts = true
	bookings, skipped, err := svc.CreateRecurring(ctx, uuid.New(), "Ivan", req)
	if err != nil {
		t.Fatalf("CreateRecurring with skip: %v", err)
	}
	if len(bookings) != 8 {
		t.Errorf("got %d occurrences, want 8", len(bookings))
	}
	if len(skipped) != 1 || skipped[0] != "2025-01-15" {
		t.Errorf("skipped = %v", skipped)
	}
}

func TestUpdateRevalidatesInterval(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()
	owner := uuid.New()

	b, err := svc.Create(ctx, owner, "Jana", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "16:00",
		End:      "17:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Shifting within the booking's own slot must not conflict with
	// itself.
	newStart := "16:30"
	newEnd := "17:30"
	updated, err := svc.Update(ctx, owner, false, b.ID, &UpdateBookingRequest{Start: &newStart, End: &newEnd})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.StartsAt.Hour() != 16 || updated.StartsAt.Minute() != 30 {
		t.Errorf("StartsAt = %v", updated.StartsAt)
	}

	// A stranger cannot edit it.
	purpose := "hijack"
	if _, err := svc.Update(ctx, uuid.New(), false, b.ID, &UpdateBookingRequest{Purpose: &purpose}); !errors.Is(err, ErrNotBookingOwner) {
		t.Errorf("expected ErrNotBookingOwner, got %v", err)
	}

	// Approved bookings are no longer editable by the owner.
	if _, err := svc.Approve(ctx, uuid.New(), b.ID); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if _, err := svc.Update(ctx, owner, false, b.ID, &UpdateBookingRequest{Purpose: &purpose}); !errors.Is(err, ErrNotPendingEditable) {
		t.Errorf("expected ErrNotPendingEditable, got %v", err)
	}
}

func TestCancelNoticeWindow(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()
	owner := uuid.New()

	b, err := svc.Create(ctx, owner, "Kira", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "18:00",
		End:      "19:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Less than 24h of notice: member is blocked, admin is not.
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	}
	if _, err := svc.Cancel(ctx, owner, false, b.ID, "sick"); !errors.Is(err, ErrCancellationWindowExpired) {
		t.Errorf("member inside notice window: expected ErrCancellationWindowExpired, got %v", err)
	}
	cancelled, err := svc.Cancel(ctx, uuid.New(), true, b.ID, "studio closed")
	if err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %s", cancelled.Status)
	}

	// With ample notice the member cancels freely.
	b2, err := svc.Create(ctx, owner, "Kira", &CreateBookingRequest{
		StudioID: studio.SmallHall,
		Date:     "2025-03-20",
		Start:    "18:00",
		End:      "19:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(ctx, owner, false, b2.ID, "plans changed"); err != nil {
		t.Errorf("member cancel with notice: %v", err)
	}
}

// A five-sibling group with one already-cancelled member cannot be
// approved, and the failed attempt leaves every row untouched.
func TestGroupTransitionAtomic(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()

	bookings, _, err := svc.CreateRecurring(ctx, uuid.New(), "Lena", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-01-06",
		Start:    "18:00",
		End:      "19:00",
		Recurring: &RecurringRequest{
			Frequency: "weekly",
			Interval:  1,
			EndDate:   "2025-02-03",
		},
	})
	if err != nil {
		t.Fatalf("CreateRecurring: %v", err)
	}
	if len(bookings) != 5 {
		t.Fatalf("got %d siblings, want 5", len(bookings))
	}
	groupID := bookings[0].RecurringGroupID.UUID

	repo.bookings[bookings[2].ID].Status = StatusCancelled

	if _, err := svc.ApproveGroup(ctx, uuid.New(), groupID); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	for i, b := range bookings {
		got := repo.bookings[b.ID].Status
		want := StatusPending
		if i == 2 {
			want = StatusCancelled
		}
		if got != want {
			t.Errorf("sibling %d status = %s, want %s", i, got, want)
		}
	}

	// A storage failure mid-batch must also leave the store unchanged.
	repo.bookings[bookings[2].ID].Status = StatusPending
	repo.updateBatchErr = errors.New("connection reset")
	if _, err := svc.ApproveGroup(ctx, uuid.New(), groupID); err == nil {
		t.Fatal("expected storage error to surface")
	}
	for _, b := range bookings {
		if repo.bookings[b.ID].Status != StatusPending {
			t.Error("storage failure leaked a partial transition")
		}
	}

	// Once healthy, the whole group transitions together.
	repo.updateBatchErr = nil
	adminID := uuid.New()
	affected, err := svc.ApproveGroup(ctx, adminID, groupID)
	if err != nil {
		t.Fatalf("ApproveGroup: %v", err)
	}
	if affected != 5 {
		t.Errorf("affected = %d, want 5", affected)
	}
	for _, b := range bookings {
		stored := repo.bookings[b.ID]
		if stored.Status != StatusApproved {
			t.Errorf("sibling %s status = %s", b.ID, stored.Status)
		}
		if !stored.ApprovedBy.Valid || stored.ApprovedBy.UUID != adminID {
			t.Error("approval audit missing on sibling")
		}
	}
}

func TestRejectGroupNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeEvents{})

	_, err := svc.RejectGroup(context.Background(), uuid.New(), uuid.New(), "")
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestAvailability(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, uuid.New(), "Mara", &CreateBookingRequest{
		StudioID: studio.BigHall,
		Date:     "2025-03-10",
		Start:    "17:00",
		End:      "18:30",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	resp, err := svc.Availability(ctx, studio.BigHall, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	if resp.Window != "16:00-22:00" {
		t.Errorf("window = %s", resp.Window)
	}
	want := []FreeSlot{
		{Start: "16:00", End: "17:00"},
		{Start: "18:30", End: "22:00"},
	}
	if len(resp.Free) != len(want) {
		t.Fatalf("free slots = %+v", resp.Free)
	}
	for i := range want {
		if resp.Free[i] != want[i] {
			t.Errorf("slot %d = %+v, want %+v", i, resp.Free[i], want[i])
		}
	}
}

func TestAvailabilityCancelledIgnored(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeEvents{})
	ctx := context.Background()
	owner := uuid.New()

	b, err := svc.Create(ctx, owner, "Nora", &CreateBookingRequest{
		StudioID: studio.SmallHall,
		Date:     "2025-03-15",
		Start:    "10:00",
		End:      "12:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Cancel(ctx, uuid.New(), true, b.ID, "freed up"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	resp, err := svc.Availability(ctx, studio.SmallHall, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Availability: %v", err)
	}
	// Saturday window, fully free again after the cancellation.
	if len(resp.Free) != 1 || resp.Free[0] != (FreeSlot{Start: "08:00", End: "22:00"}) {
		t.Errorf("free slots = %+v", resp.Free)
	}
}
