package auditlog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
)

const msgForbidden = "You do not have permission to perform this action."

// Routes mounts the audit log under /api/audit. Only superusers may read it.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(requireSuperuser)
	r.MethodNotAllowed(apierrors.MethodNotAllowed)
	r.NotFound(apierrors.NotFound)

	r.Get("/", h.ServeList)
	return r
}

func requireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !authz.IsSuperuser(r) {
			apierrors.WriteDetail(w, http.StatusForbidden, msgForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
