package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/middleware"
)

// Repository defines booking data access interface.
//
// Single-record writes are atomic at the row level; the batch variants run
// inside one transaction and either commit every record or none
// (all-or-nothing, required by the group approval coordinator).
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	CreateBatch(ctx context.Context, bookings []*Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	ListByStudioDay(ctx context.Context, studioID string, dayStart, dayEnd time.Time) ([]*Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error)
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Booking, error)
	Update(ctx context.Context, b *Booking) error
	UpdateBatch(ctx context.Context, bookings []*Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingSelectColumns = `
	id, studio_id, user_id, user_name, starts_at, ends_at, purpose, status,
	is_recurring, recurring_frequency, recurring_interval, recurring_days_of_week,
	recurring_end_date, recurring_group_id,
	approved_by, approved_at, rejection_reason, cancellation_reason, cancelled_at,
	created_at, updated_at
`

const bookingInsertQuery = `
	INSERT INTO bookings (
		id, studio_id, user_id, user_name, starts_at, ends_at, purpose, status,
		is_recurring, recurring_frequency, recurring_interval, recurring_days_of_week,
		recurring_end_date, recurring_group_id, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8,
		$9, $10, $11, $12,
		$13, $14, $15, $16
	)
`

func insertArgs(b *Booking) []interface{} {
	return []interface{}{
		b.ID, b.StudioID, b.UserID, b.UserName, b.StartsAt, b.EndsAt, b.Purpose, b.Status,
		b.IsRecurring, b.RecurringFrequency, b.RecurringInterval, b.RecurringDaysOfWeek,
		b.RecurringEndDate, b.RecurringGroupID, b.CreatedAt, b.UpdatedAt,
	}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	_, err := r.db.ExecContext(ctx, bookingInsertQuery, insertArgs(b)...)
	if err != nil {
		logDBError(ctx, "bookings.create", b.ID, err)
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

func (r *repository) CreateBatch(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch create: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bookings {
		if _, err := tx.ExecContext(ctx, bookingInsertQuery, insertArgs(b)...); err != nil {
			logDBError(ctx, "bookings.create_batch", b.ID, err)
			return fmt.Errorf("batch create booking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch create: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var b Booking
	query := `SELECT ` + bookingSelectColumns + ` FROM bookings WHERE id = $1`

	if err := r.db.GetContext(ctx, &b, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListByStudioDay(ctx context.Context, studioID string, dayStart, dayEnd time.Time) ([]*Booking, error) {
	bookings := []*Booking{}
	query := `
		SELECT ` + bookingSelectColumns + `
		FROM bookings
		WHERE studio_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at ASC
	`

	if err := r.db.SelectContext(ctx, &bookings, query, studioID, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Booking, error) {
	bookings := []*Booking{}
	query := `
		SELECT ` + bookingSelectColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY starts_at DESC
	`

	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]*Booking, error) {
	bookings := []*Booking{}
	query := `
		SELECT ` + bookingSelectColumns + `
		FROM bookings
		WHERE recurring_group_id = $1
		ORDER BY starts_at ASC
	`

	if err := r.db.SelectContext(ctx, &bookings, query, groupID); err != nil {
		return nil, err
	}
	return bookings, nil
}

const bookingUpdateQuery = `
	UPDATE bookings SET
		starts_at = $2, ends_at = $3, purpose = $4, status = $5,
		approved_by = $6, approved_at = $7, rejection_reason = $8,
		cancellation_reason = $9, cancelled_at = $10, updated_at = $11
	WHERE id = $1
`

func updateArgs(b *Booking) []interface{} {
	return []interface{}{
		b.ID, b.StartsAt, b.EndsAt, b.Purpose, b.Status,
		b.ApprovedBy, b.ApprovedAt, b.RejectionReason,
		b.CancellationReason, b.CancelledAt, b.UpdatedAt,
	}
}

func (r *repository) Update(ctx context.Context, b *Booking) error {
	result, err := r.db.ExecContext(ctx, bookingUpdateQuery, updateArgs(b)...)
	if err != nil {
		logDBError(ctx, "bookings.update", b.ID, err)
		return fmt.Errorf("update booking: %w", err)
	}
	return checkAffected(result)
}

func (r *repository) UpdateBatch(ctx context.Context, bookings []*Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch update: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bookings {
		result, err := tx.ExecContext(ctx, bookingUpdateQuery, updateArgs(b)...)
		if err != nil {
			logDBError(ctx, "bookings.update_batch", b.ID, err)
			return fmt.Errorf("batch update booking: %w", err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch update: %w", err)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		logDBError(ctx, "bookings.delete", id, err)
		return err
	}
	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func logDBError(ctx context.Context, operation string, id uuid.UUID, err error) {
	evt := log.Error().
		Str("request_id", middleware.GetRequestID(ctx)).
		Str("query", operation).
		Str("booking_id", id.String()).
		Err(err)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		evt = evt.
			Str("pg_code", string(pqErr.Code)).
			Str("pg_constraint", pqErr.Constraint)
	}

	evt.Msg("booking query failed")
}
