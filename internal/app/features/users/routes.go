package users

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
)

// Routes mounts under /api/users. tokenPerMinute limits token requests
// per client IP; zero disables the limit.
func Routes(h *Handler, tokenPerMinute int) chi.Router {
	r := chi.NewRouter()
	r.MethodNotAllowed(apierrors.MethodNotAllowed)
	r.NotFound(apierrors.NotFound)

	r.Post("/", h.HandleCreate)

	r.Group(func(r chi.Router) {
		if tokenPerMinute > 0 {
			r.Use(httprate.Limit(tokenPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(tooManyRequests),
			))
		}
		r.Post("/token", h.HandleToken)
	})

	r.Route("/me", func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.MethodNotAllowed(apierrors.MethodNotAllowed)
		r.Get("/", h.ServeMe)
		r.Put("/", h.HandleUpdateMe)
		r.Patch("/", h.HandleUpdateMe)
	})
	return r
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteDetail(w, http.StatusTooManyRequests, "Request was throttled.")
}
