package recipes

import (
	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
)

// Routes mounts under /api/recipes. Every route requires a signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.MethodNotAllowed(apierrors.MethodNotAllowed)
	r.NotFound(apierrors.NotFound)

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Route("/{id}", func(r chi.Router) {
		r.MethodNotAllowed(apierrors.MethodNotAllowed)
		r.Get("/", h.ServeDetail)
		r.Put("/", h.HandleUpdate)
		r.Patch("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)
		r.Post("/upload-image", h.HandleUploadImage)
	})
	return r
}
