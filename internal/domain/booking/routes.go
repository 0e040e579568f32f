package booking

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danceflow/danceflow-api/internal/middleware"
)

// Routes returns the booking router.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/my", h.ListMy)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}", h.Update)
		r.Post("/{id}/cancel", h.Cancel)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Post("/{id}/approve", h.Approve)
			r.Post("/{id}/reject", h.Reject)
			r.Delete("/{id}", h.Delete)
		})
	})

	return r
}

// GroupRoutes returns the recurring-group router (admin only).
func (h *Handler) GroupRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin())
		r.Post("/{groupID}/approve", h.ApproveGroup)
		r.Post("/{groupID}/reject", h.RejectGroup)
	})

	return r
}
