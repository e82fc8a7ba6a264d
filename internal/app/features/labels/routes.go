package labels

import (
	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
)

// Routes mounts under /api/tags or /api/ingredients. Labels are created
// only through recipe writes, so there is no POST, and there is no detail
// GET.
func Routes[T any](h *Handler[T]) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.MethodNotAllowed(apierrors.MethodNotAllowed)
	r.NotFound(apierrors.NotFound)

	r.Get("/", h.ServeList)
	r.Route("/{id}", func(r chi.Router) {
		r.MethodNotAllowed(apierrors.MethodNotAllowed)
		r.Put("/", h.HandleUpdate)
		r.Patch("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)
	})
	return r
}
