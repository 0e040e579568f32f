package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/domain/studio"
	"github.com/danceflow/danceflow-api/internal/middleware"
	"github.com/danceflow/danceflow-api/internal/pkg/response"
	"github.com/danceflow/danceflow-api/internal/pkg/timeparse"
	"github.com/danceflow/danceflow-api/internal/pkg/validator"
)

// Handler handles booking HTTP requests.
type Handler struct {
	service *Service
}

// NewHandler creates a booking handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /api/v1/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}
	userName := middleware.GetUserName(r.Context())

	var req CreateBookingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if req.Recurring != nil {
		bookings, skipped, err := h.service.CreateRecurring(r.Context(), userID, userName, &req)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		resp := &SeriesResponse{
			GroupID:  bookings[0].RecurringGroupID.UUID.String(),
			Bookings: toResponses(bookings),
			Skipped:  skipped,
		}
		response.Created(w, resp)
		return
	}

	b, err := h.service.Create(r.Context(), userID, userName, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.Created(w, b.ToResponse())
}

// List handles GET /api/v1/bookings?studio_id=&date=&status=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	studioID := r.URL.Query().Get("studio_id")

	day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		response.BadRequest(w, "Invalid or missing date (expected YYYY-MM-DD)")
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" {
		if err := validator.ValidateVar(status, "booking_status"); err != nil {
			response.BadRequest(w, "Invalid status filter")
			return
		}
	}

	bookings, err := h.service.ListByStudioDay(r.Context(), studioID, day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if status != "" {
		filtered := bookings[:0]
		for _, b := range bookings {
			if b.Status == Status(status) {
				filtered = append(filtered, b)
			}
		}
		bookings = filtered
	}
	response.OK(w, toResponses(bookings))
}

// ListMy handles GET /api/v1/bookings/my
func (h *Handler) ListMy(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "User not authenticated")
		return
	}

	bookings, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, toResponses(bookings))
}

// Get handles GET /api/v1/bookings/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Update handles PATCH /api/v1/bookings/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	var req UpdateBookingRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	b, err := h.service.Update(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), id, &req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Approve handles POST /api/v1/bookings/{id}/approve (admin)
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	b, err := h.service.Approve(r.Context(), middleware.GetUserID(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Reject handles POST /api/v1/bookings/{id}/reject (admin)
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	var req RejectRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	b, err := h.service.Reject(r.Context(), middleware.GetUserID(r.Context()), id, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Cancel handles POST /api/v1/bookings/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	var req CancelRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	ctx := r.Context()
	b, err := h.service.Cancel(ctx, middleware.GetUserID(ctx), middleware.IsAdmin(ctx), id, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, b.ToResponse())
}

// Delete handles DELETE /api/v1/bookings/{id} (admin)
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid booking id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	response.NoContent(w)
}

// ApproveGroup handles POST /api/v1/booking-groups/{groupID}/approve (admin)
func (h *Handler) ApproveGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group id")
		return
	}

	count, err := h.service.ApproveGroup(r.Context(), middleware.GetUserID(r.Context()), groupID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, &GroupActionResponse{
		GroupID:  groupID.String(),
		Status:   string(StatusApproved),
		Affected: count,
	})
}

// RejectGroup handles POST /api/v1/booking-groups/{groupID}/reject (admin)
func (h *Handler) RejectGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(chi.URLParam(r, "groupID"))
	if err != nil {
		response.BadRequest(w, "Invalid group id")
		return
	}

	var req RejectRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	count, err := h.service.RejectGroup(r.Context(), middleware.GetUserID(r.Context()), groupID, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, &GroupActionResponse{
		GroupID:  groupID.String(),
		Status:   string(StatusRejected),
		Affected: count,
	})
}

// Availability handles GET /api/v1/studios/{id}/availability?date=
func (h *Handler) Availability(w http.ResponseWriter, r *http.Request) {
	day, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.UTC)
	if err != nil {
		response.BadRequest(w, "Invalid or missing date (expected YYYY-MM-DD)")
		return
	}

	avail, err := h.service.Availability(r.Context(), chi.URLParam(r, "id"), day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	response.OK(w, avail)
}

// writeError maps service errors to HTTP responses. Validation failures
// stay field-addressable for the client to re-prompt; persistence errors
// surface as opaque internal failures.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if ce, ok := IsConflict(err); ok {
		response.SchedulingConflict(w, "Requested interval overlaps an existing reservation", ce.Conflicts)
		return
	}

	switch {
	case errors.Is(err, timeparse.ErrMalformedTime):
		response.Error(w, http.StatusBadRequest, "MALFORMED_TIME_INPUT", "Could not interpret time input")
	case errors.Is(err, ErrInvalidInterval):
		response.Error(w, http.StatusBadRequest, "INVALID_INTERVAL", err.Error())
	case errors.Is(err, ErrOutsideBusinessHours):
		response.Error(w, http.StatusBadRequest, "OUTSIDE_BUSINESS_HOURS", "Interval is outside the studio's booking hours")
	case errors.Is(err, ErrInvalidFrequency), errors.Is(err, ErrInvalidPattern), errors.Is(err, ErrEmptyRecurringSeries):
		response.Error(w, http.StatusBadRequest, "INVALID_RECURRENCE", err.Error())
	case errors.Is(err, ErrInvalidStateTransition):
		response.Conflict(w, "INVALID_STATE_TRANSITION", err.Error())
	case errors.Is(err, ErrNotPendingEditable):
		response.Conflict(w, "NOT_EDITABLE", err.Error())
	case errors.Is(err, ErrCancellationWindowExpired):
		response.Error(w, http.StatusForbidden, "CANCELLATION_WINDOW_EXPIRED", err.Error())
	case errors.Is(err, ErrNotBookingOwner):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrBookingNotFound):
		response.NotFound(w, "Booking not found")
	case errors.Is(err, ErrGroupNotFound):
		response.NotFound(w, "Recurring group not found")
	case errors.Is(err, studio.ErrStudioNotFound):
		response.NotFound(w, "Studio not found")
	default:
		log.Error().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Err(err).
			Msg("booking request failed")
		response.InternalError(w)
	}
}

func toResponses(bookings []*Booking) []*BookingResponse {
	out := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = b.ToResponse()
	}
	return out
}
