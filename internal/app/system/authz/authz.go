// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnerID returns the id that scopes every catalog query for this request:
// the authenticated user's id. ok is false for anonymous requests, in which
// case the id is NilObjectID and callers must not query.
func OwnerID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.ID.IsZero() {
		return primitive.NilObjectID, false
	}
	return u.ID, true
}

// IsSuperuser reports whether the current user has the superuser flag.
func IsSuperuser(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsSuperuser
}
