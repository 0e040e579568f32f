package event

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/danceflow/danceflow-api/internal/domain/studio"
	"github.com/danceflow/danceflow-api/internal/middleware"
	"github.com/danceflow/danceflow-api/internal/pkg/response"
	"github.com/danceflow/danceflow-api/internal/pkg/timeparse"
	"github.com/danceflow/danceflow-api/internal/pkg/validator"
)

// CacheInvalidator drops cached reservation snapshots for a studio/day
// after an event write.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, studioID string, day time.Time)
}

// Handler handles calendar event HTTP requests.
type Handler struct {
	repo  Repository
	cache CacheInvalidator
}

// NewHandler creates an event handler
func NewHandler(repo Repository, cache CacheInvalidator) *Handler {
	return &Handler{repo: repo, cache: cache}
}

// Create handles POST /api/v1/events (admin only)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if !studio.Exists(req.StudioID) {
		response.NotFound(w, "Studio not found")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		response.BadRequest(w, "Invalid date")
		return
	}

	startsAt, endsAt, perr := parseInterval(day, req.Start, req.End)
	if perr != nil {
		response.ErrorWithDetails(w, http.StatusBadRequest, "MALFORMED_TIME_INPUT",
			"Could not interpret time input", map[string]string{"time": perr.Error()})
		return
	}
	if !endsAt.After(startsAt) {
		response.BadRequest(w, "End time must be after start time")
		return
	}

	now := time.Now().UTC()
	e := &Event{
		ID:        uuid.New(),
		StudioID:  req.StudioID,
		Title:     req.Title,
		StartsAt:  startsAt,
		EndsAt:    endsAt,
		CreatedBy: middleware.GetUserID(r.Context()),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.repo.Create(r.Context(), e); err != nil {
		response.InternalError(w)
		return
	}

	if h.cache != nil {
		h.cache.Invalidate(r.Context(), e.StudioID, day)
	}

	response.Created(w, e.ToResponse())
}

// List handles GET /api/v1/events?studio_id=&date=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	studioID := r.URL.Query().Get("studio_id")
	if !studio.Exists(studioID) {
		response.NotFound(w, "Studio not found")
		return
	}

	day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		response.BadRequest(w, "Invalid or missing date (expected YYYY-MM-DD)")
		return
	}

	events, err := h.repo.ListByStudioDay(r.Context(), studioID, day, day.AddDate(0, 0, 1))
	if err != nil {
		response.InternalError(w)
		return
	}

	out := make([]*EventResponse, len(events))
	for i, e := range events {
		out[i] = e.ToResponse()
	}
	response.OK(w, out)
}

// Delete handles DELETE /api/v1/events/{id} (admin only)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid event id")
		return
	}

	e, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrEventNotFound) {
			response.NotFound(w, "Event not found")
			return
		}
		response.InternalError(w)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		response.InternalError(w)
		return
	}

	if h.cache != nil {
		day := e.StartsAt.UTC().Truncate(24 * time.Hour)
		h.cache.Invalidate(r.Context(), e.StudioID, day)
	}

	response.NoContent(w)
}

// Routes returns the event router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())
		r.Post("/", h.Create)
		r.Delete("/{id}", h.Delete)
	})

	return r
}

func parseInterval(day time.Time, start, end string) (time.Time, time.Time, error) {
	canonStart, err := timeparse.Parse(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	canonEnd, err := timeparse.Parse(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	sh, sm, _ := timeparse.Clock(canonStart)
	eh, em, _ := timeparse.Clock(canonEnd)

	startsAt := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, time.UTC)
	endsAt := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, time.UTC)
	return startsAt, endsAt, nil
}
