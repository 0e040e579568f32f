package booking

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/domain/event"
	"github.com/danceflow/danceflow-api/internal/domain/studio"
	"github.com/danceflow/danceflow-api/internal/pkg/timeparse"
)

// EventSource provides the calendar events that participate in conflict
// detection. Owned by the event domain; consumed read-only here.
type EventSource interface {
	ListByStudioDay(ctx context.Context, studioID string, dayStart, dayEnd time.Time) ([]*event.Event, error)
}

// Service handles booking business logic. It is stateless: every request
// computes over a fresh snapshot of the persisted reservation set.
type Service struct {
	repo   Repository
	events EventSource
	cache  *SnapshotCache
	policy CancellationPolicy

	now func() time.Time
}

// NewService creates booking service
func NewService(repo Repository, events EventSource, cache *SnapshotCache, policy CancellationPolicy) *Service {
	return &Service{
		repo:   repo,
		events: events,
		cache:  cache,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// snapshot returns the materialized reservation set for a studio/day.
func (s *Service) snapshot(ctx context.Context, studioID string, day time.Time) (*Snapshot, error) {
	if snap := s.cache.Get(ctx, studioID, day); snap != nil {
		return snap, nil
	}

	dayEnd := day.AddDate(0, 0, 1)

	events, err := s.events.ListByStudioDay(ctx, studioID, day, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	bookings, err := s.repo.ListByStudioDay(ctx, studioID, day, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch bookings: %w", err)
	}

	snap := &Snapshot{Events: events, Bookings: bookings}
	s.cache.Set(ctx, studioID, day, snap)
	return snap, nil
}

// checkCandidate runs the admission pipeline for one interval: business
// hours, then conflict detection against the studio/day snapshot.
// excludeID skips the candidate's own row when re-validating an edit.
func (s *Service) checkCandidate(ctx context.Context, st studio.Studio, ival Interval, excludeID string) error {
	if err := CheckWindow(st, ival); err != nil {
		return err
	}

	snap, err := s.snapshot(ctx, st.ID, midnightUTC(ival.Start))
	if err != nil {
		return err
	}

	obstacles := BuildObstacles(snap.Events, snap.Bookings, excludeID)
	if conflicts := DetectConflicts(ival, obstacles); len(conflicts) > 0 {
		return &ConflictError{Conflicts: conflicts}
	}
	return nil
}

// Create admits a single (non-recurring) booking request.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, userName string, req *CreateBookingRequest) (*Booking, error) {
	st, err := studio.Get(req.StudioID)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, timeparse.ErrMalformedTime
	}

	ival, err := buildInterval(day, req.Start, req.End)
	if err != nil {
		return nil, err
	}

	if err := s.checkCandidate(ctx, st, ival, ""); err != nil {
		return nil, err
	}

	now := s.now()
	b := &Booking{
		ID:        uuid.New(),
		StudioID:  st.ID,
		UserID:    userID,
		UserName:  userName,
		StartsAt:  ival.Start,
		EndsAt:    ival.End,
		Purpose:   req.Purpose,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, st.ID, day)

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("studio_id", st.ID).
		Time("starts_at", b.StartsAt).
		Msg("booking admitted")

	return b, nil
}

// CreateRecurring expands a recurring request into sibling pending rows
// sharing one group id. Each occurrence is conflict-checked independently;
// by default any conflict rejects the whole series, while SkipConflicts
// admits only the free occurrences. An occurrence outside the business
// hours window always rejects the series — that is user input to correct,
// not a transient collision.
func (s *Service) CreateRecurring(ctx context.Context, userID uuid.UUID, userName string, req *CreateBookingRequest) ([]*Booking, []string, error) {
	st, err := studio.Get(req.StudioID)
	if err != nil {
		return nil, nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return nil, nil, timeparse.ErrMalformedTime
	}

	base, err := buildInterval(day, req.Start, req.End)
	if err != nil {
		return nil, nil, err
	}

	pattern, err := patternFromRequest(req.Recurring)
	if err != nil {
		return nil, nil, err
	}

	dates, err := pattern.Expand(day)
	if err != nil {
		return nil, nil, err
	}
	if len(dates) == 0 {
		return nil, nil, ErrEmptyRecurringSeries
	}

	duration := base.End.Sub(base.Start)
	startHour, startMin := base.Start.Hour(), base.Start.Minute()

	var admitted []Interval
	var skipped []string
	var allConflicts []string

	for _, d := range dates {
		ival := Interval{
			Start: time.Date(d.Year(), d.Month(), d.Day(), startHour, startMin, 0, 0, time.UTC),
		}
		ival.End = ival.Start.Add(duration)

		err := s.checkCandidate(ctx, st, ival, "")
		if err == nil {
			admitted = append(admitted, ival)
			continue
		}
		if ce, ok := IsConflict(err); ok {
			skipped = append(skipped, d.Format("2006-01-02"))
			for _, c := range ce.Conflicts {
				allConflicts = append(allConflicts, fmt.Sprintf("%s: %s", d.Format("2006-01-02"), c))
			}
			continue
		}
		return nil, nil, err
	}

	if len(allConflicts) > 0 && !req.SkipConflicts {
		return nil, nil, &ConflictError{Conflicts: allConflicts}
	}
	if len(admitted) == 0 {
		return nil, nil, &ConflictError{Conflicts: allConflicts}
	}

	now := s.now()
	groupID := uuid.New()
	endDate := midnightUTC(pattern.EndDate)

	bookings := make([]*Booking, len(admitted))
	for i, ival := range admitted {
		bookings[i] = &Booking{
			ID:          uuid.New(),
			StudioID:    st.ID,
			UserID:      userID,
			UserName:    userName,
			StartsAt:    ival.Start,
			EndsAt:      ival.End,
			Purpose:     req.Purpose,
			Status:      StatusPending,
			IsRecurring: true,
			RecurringFrequency: sql.NullString{
				String: string(pattern.Frequency), Valid: true,
			},
			RecurringInterval:   sql.NullInt32{Int32: int32(pattern.Interval), Valid: true},
			RecurringDaysOfWeek: daysToArray(pattern.DaysOfWeek),
			RecurringEndDate:    sql.NullTime{Time: endDate, Valid: true},
			RecurringGroupID:    uuid.NullUUID{UUID: groupID, Valid: true},
			CreatedAt:           now,
			UpdatedAt:           now,
		}
	}

	if err := s.repo.CreateBatch(ctx, bookings); err != nil {
		return nil, nil, err
	}
	for _, b := range bookings {
		s.cache.Invalidate(ctx, st.ID, midnightUTC(b.StartsAt))
	}

	log.Info().
		Str("group_id", groupID.String()).
		Str("studio_id", st.ID).
		Int("occurrences", len(bookings)).
		Int("skipped", len(skipped)).
		Msg("recurring series admitted")

	return bookings, skipped, nil
}

// Get returns one booking.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByStudioDay returns every booking touching a studio/day, all
// statuses included (display concern, not conflict detection).
func (s *Service) ListByStudioDay(ctx context.Context, studioID string, day time.Time) ([]*Booking, error) {
	if !studio.Exists(studioID) {
		return nil, studio.ErrStudioNotFound
	}
	return s.repo.ListByStudioDay(ctx, studioID, day, day.AddDate(0, 0, 1))
}

// ListByUser returns the caller's bookings, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Update edits a pending booking's interval or purpose. Time changes
// re-run the full admission pipeline (business hours + conflicts, with
// the booking's own row excluded) immediately before the write.
func (s *Service) Update(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, req *UpdateBookingRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !b.CanBeEditedBy(actorID) {
		return nil, ErrNotBookingOwner
	}
	if b.Status != StatusPending {
		return nil, ErrNotPendingEditable
	}

	oldDay := midnightUTC(b.StartsAt)

	day := oldDay
	if req.Date != nil {
		day, err = time.ParseInLocation("2006-01-02", *req.Date, time.UTC)
		if err != nil {
			return nil, timeparse.ErrMalformedTime
		}
	}

	start := b.StartsAt.Format("15:04")
	if req.Start != nil {
		start = *req.Start
	}
	end := b.EndsAt.Format("15:04")
	if req.End != nil {
		end = *req.End
	}

	timeChanged := req.Date != nil || req.Start != nil || req.End != nil
	if timeChanged {
		st, err := studio.Get(b.StudioID)
		if err != nil {
			return nil, err
		}
		ival, err := buildInterval(day, start, end)
		if err != nil {
			return nil, err
		}
		if err := s.checkCandidate(ctx, st, ival, b.ID.String()); err != nil {
			return nil, err
		}
		b.StartsAt = ival.Start
		b.EndsAt = ival.End
	}

	if req.Purpose != nil {
		b.Purpose = *req.Purpose
	}
	b.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, b.StudioID, oldDay)
	if timeChanged {
		s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	}
	return b, nil
}

// Approve transitions one pending booking to approved.
func (s *Service) Approve(ctx context.Context, adminID, id uuid.UUID) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Approve(b, adminID, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	return b, nil
}

// Reject transitions one pending booking to rejected.
func (s *Service) Reject(ctx context.Context, adminID, id uuid.UUID, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Reject(b, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	return b, nil
}

// Cancel transitions a pending or approved booking to cancelled. Members
// may only cancel their own bookings and only while the minimum-notice
// window is open; administrators are unrestricted.
func (s *Service) Cancel(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !isAdmin {
		if !b.CanBeEditedBy(actorID) {
			return nil, ErrNotBookingOwner
		}
		if err := s.policy.Check(b.StartsAt, s.now()); err != nil {
			return nil, err
		}
	}

	if err := Cancel(b, reason, s.now()); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	return b, nil
}

// Delete removes a booking outright. Administrative operation, distinct
// from cancellation: the record disappears instead of keeping an audit
// trail.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	return nil
}

// ApproveGroup applies the approve transition to every sibling of a
// recurring group as a single atomic batch: either all siblings
// transition or none do. Returns the number of affected bookings.
func (s *Service) ApproveGroup(ctx context.Context, adminID, groupID uuid.UUID) (int, error) {
	return s.transitionGroup(ctx, groupID, func(b *Booking, now time.Time) error {
		return Approve(b, adminID, now)
	})
}

// RejectGroup applies the reject transition to every sibling of a
// recurring group atomically.
func (s *Service) RejectGroup(ctx context.Context, adminID, groupID uuid.UUID, reason string) (int, error) {
	return s.transitionGroup(ctx, groupID, func(b *Booking, now time.Time) error {
		return Reject(b, reason, now)
	})
}

func (s *Service) transitionGroup(ctx context.Context, groupID uuid.UUID, transition func(*Booking, time.Time) error) (int, error) {
	siblings, err := s.repo.ListByGroup(ctx, groupID)
	if err != nil {
		return 0, err
	}
	if len(siblings) == 0 {
		return 0, ErrGroupNotFound
	}

	now := s.now()
	for _, b := range siblings {
		if err := transition(b, now); err != nil {
			// One incompatible sibling fails the whole group; no
			// partial transition is written.
			return 0, err
		}
	}

	if err := s.repo.UpdateBatch(ctx, siblings); err != nil {
		return 0, err
	}
	for _, b := range siblings {
		s.cache.Invalidate(ctx, b.StudioID, midnightUTC(b.StartsAt))
	}

	log.Info().
		Str("group_id", groupID.String()).
		Int("affected", len(siblings)).
		Str("status", string(siblings[0].Status)).
		Msg("recurring group transitioned")

	return len(siblings), nil
}

// Availability computes the free ranges inside a studio's business-hours
// window for one day. Derived on demand from the snapshot; the engine
// holds no state between calls.
func (s *Service) Availability(ctx context.Context, studioID string, day time.Time) (*AvailabilityResponse, error) {
	st, err := studio.Get(studioID)
	if err != nil {
		return nil, err
	}

	day = midnightUTC(day)
	w := WindowFor(st, day)
	windowStart := day.Add(time.Duration(w.Open) * time.Hour)
	windowEnd := day.Add(time.Duration(w.Close) * time.Hour)

	snap, err := s.snapshot(ctx, st.ID, day)
	if err != nil {
		return nil, err
	}

	busy := make([]Interval, 0, len(snap.Events)+len(snap.Bookings))
	for _, o := range BuildObstacles(snap.Events, snap.Bookings, "") {
		busy = append(busy, o.Interval)
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	resp := &AvailabilityResponse{
		StudioID: st.ID,
		Date:     day.Format("2006-01-02"),
		Window:   fmt.Sprintf("%02d:00-%02d:00", w.Open, w.Close),
		Free:     []FreeSlot{},
	}

	cursor := windowStart
	for _, ival := range busy {
		if !ival.End.After(windowStart) || !ival.Start.Before(windowEnd) {
			continue
		}
		if ival.Start.After(cursor) {
			resp.Free = append(resp.Free, FreeSlot{
				Start: cursor.Format("15:04"),
				End:   minTime(ival.Start, windowEnd).Format("15:04"),
			})
		}
		if ival.End.After(cursor) {
			cursor = ival.End
		}
	}
	if cursor.Before(windowEnd) {
		resp.Free = append(resp.Free, FreeSlot{
			Start: cursor.Format("15:04"),
			End:   windowEnd.Format("15:04"),
		})
	}

	return resp, nil
}

func buildInterval(day time.Time, start, end string) (Interval, error) {
	canonStart, err := timeparse.Parse(start)
	if err != nil {
		return Interval{}, err
	}
	canonEnd, err := timeparse.Parse(end)
	if err != nil {
		return Interval{}, err
	}

	sh, sm, _ := timeparse.Clock(canonStart)
	eh, em, _ := timeparse.Clock(canonEnd)

	ival := Interval{
		Start: time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, time.UTC),
		End:   time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, time.UTC),
	}
	if !ival.Valid() {
		return Interval{}, ErrInvalidInterval
	}
	return ival, nil
}

func patternFromRequest(req *RecurringRequest) (Pattern, error) {
	if req == nil {
		return Pattern{}, ErrInvalidPattern
	}

	endDate, err := time.ParseInLocation("2006-01-02", req.EndDate, time.UTC)
	if err != nil {
		return Pattern{}, ErrInvalidPattern
	}

	days := make([]time.Weekday, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		days = append(days, time.Weekday(d))
	}

	p := Pattern{
		Frequency:  Frequency(req.Frequency),
		Interval:   req.Interval,
		DaysOfWeek: days,
		EndDate:    endDate,
	}
	return p, p.Validate()
}

func daysToArray(days []time.Weekday) pq.Int32Array {
	if len(days) == 0 {
		return nil
	}
	arr := make(pq.Int32Array, len(days))
	for i, d := range days {
		arr[i] = int32(d)
	}
	return arr
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
