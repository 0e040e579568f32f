package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Repository defines event data access interface
type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListByStudioDay(ctx context.Context, studioID string, dayStart, dayEnd time.Time) ([]*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new event repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO calendar_events (id, studio_id, title, starts_at, ends_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.StudioID, e.Title, e.StartsAt, e.EndsAt, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		log.Error().
			Str("query", "calendar_events.create").
			Str("event_id", e.ID.String()).
			Str("studio_id", e.StudioID).
			Err(err).
			Msg("event insert failed")
		return err
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var e Event
	query := `
		SELECT id, studio_id, title, starts_at, ends_at, created_by, created_at, updated_at
		FROM calendar_events WHERE id = $1
	`

	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByStudioDay(ctx context.Context, studioID string, dayStart, dayEnd time.Time) ([]*Event, error) {
	events := []*Event{}
	query := `
		SELECT id, studio_id, title, starts_at, ends_at, created_by, created_at, updated_at
		FROM calendar_events
		WHERE studio_id = $1 AND starts_at < $3 AND ends_at > $2
		ORDER BY starts_at ASC
	`

	if err := r.db.SelectContext(ctx, &events, query, studioID, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}
	return nil
}
