package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/middleware"
	"github.com/danceflow/danceflow-api/internal/pkg/response"
)

// Handler serves admin dashboard projections.
type Handler struct {
	service *Service
}

// NewHandler creates a dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Summary handles GET /api/v1/dashboard/summary (admin)
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("dashboard summary failed")
		response.InternalError(w)
		return
	}
	response.OK(w, summary)
}

// Routes returns the dashboard router (admin only)
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())
		r.Get("/summary", h.Summary)
	})

	return r
}
