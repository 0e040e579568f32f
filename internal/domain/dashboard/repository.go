package dashboard

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// StudioPending is the number of bookings awaiting review per studio.
type StudioPending struct {
	StudioID string `db:"studio_id" json:"studio_id"`
	Pending  int    `db:"pending" json:"pending"`
}

// Summary is a derived read-only projection over the persisted booking
// and event sets. It is computed on demand; the engine keeps no running
// counters.
type Summary struct {
	PendingByStudio []StudioPending `json:"pending_by_studio"`
	PendingTotal    int             `json:"pending_total"`
	ApprovedToday   int             `json:"approved_today"`
	EventsToday     int             `json:"events_today"`
	GeneratedAt     string          `json:"generated_at"`
}

// Repository aggregates dashboard figures straight from the store.
type Repository interface {
	Summarize(ctx context.Context, dayStart, dayEnd time.Time) (*Summary, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new dashboard repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Summarize(ctx context.Context, dayStart, dayEnd time.Time) (*Summary, error) {
	summary := &Summary{PendingByStudio: []StudioPending{}}

	pendingQuery := `
		SELECT studio_id, COUNT(*) AS pending
		FROM bookings
		WHERE status = 'pending'
		GROUP BY studio_id
		ORDER BY studio_id
	`
	if err := r.db.SelectContext(ctx, &summary.PendingByStudio, pendingQuery); err != nil {
		return nil, err
	}
	for _, p := range summary.PendingByStudio {
		summary.PendingTotal += p.Pending
	}

	approvedQuery := `
		SELECT COUNT(*) FROM bookings
		WHERE status = 'approved' AND starts_at >= $1 AND starts_at < $2
	`
	if err := r.db.GetContext(ctx, &summary.ApprovedToday, approvedQuery, dayStart, dayEnd); err != nil {
		return nil, err
	}

	eventsQuery := `
		SELECT COUNT(*) FROM calendar_events
		WHERE starts_at >= $1 AND starts_at < $2
	`
	if err := r.db.GetContext(ctx, &summary.EventsToday, eventsQuery, dayStart, dayEnd); err != nil {
		return nil, err
	}

	return summary, nil
}
