// internal/app/features/health/routes.go
package health

import (
	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
)

// Routes serves the probe under /health. HEAD is accepted for load
// balancers that probe without a body.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.MethodNotAllowed(apierrors.MethodNotAllowed)
	r.Get("/", h.Serve)
	r.Head("/", h.Serve)
	return r
}
