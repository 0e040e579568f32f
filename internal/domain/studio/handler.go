package studio

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/danceflow/danceflow-api/internal/pkg/response"
)

// Handler serves the studio catalog.
type Handler struct{}

// NewHandler creates a studio handler
func NewHandler() *Handler {
	return &Handler{}
}

// List handles GET /api/v1/studios
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	response.OK(w, All())
}

// Get handles GET /api/v1/studios/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := Get(chi.URLParam(r, "id"))
	if err != nil {
		response.NotFound(w, "Studio not found")
		return
	}
	response.OK(w, s)
}

// Routes returns the studio router. availability is owned by the booking
// domain; it hangs off the studio subtree because the free slots are a
// per-studio projection.
func (h *Handler) Routes(availability http.HandlerFunc) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/availability", availability)
	return r
}
