package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOwnerID_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/recipes", nil)
	id, ok := authz.OwnerID(req)
	if ok || !id.IsZero() {
		t.Errorf("OwnerID = %v, %v; want NilObjectID, false", id, ok)
	}
}

func TestOwnerID_WithUser(t *testing.T) {
	uid := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/api/recipes", nil)
	req = auth.WithPrincipal(req, &auth.Principal{ID: uid})

	id, ok := authz.OwnerID(req)
	if !ok || id != uid {
		t.Errorf("OwnerID = %v, %v; want %v, true", id, ok, uid)
	}
}

func TestOwnerID_ZeroID(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/recipes", nil)
	req = auth.WithPrincipal(req, &auth.Principal{})
	if _, ok := authz.OwnerID(req); ok {
		t.Error("expected zero id to be rejected")
	}
}

func TestIsSuperuser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if authz.IsSuperuser(req) {
		t.Error("anonymous request should not be superuser")
	}

	staff := auth.WithPrincipal(req, &auth.Principal{ID: primitive.NewObjectID(), IsStaff: true})
	if authz.IsSuperuser(staff) {
		t.Error("staff flag alone should not grant superuser")
	}

	req = auth.WithPrincipal(req, &auth.Principal{ID: primitive.NewObjectID(), IsStaff: true, IsSuperuser: true})
	if !authz.IsSuperuser(req) {
		t.Error("expected superuser flag")
	}
}
