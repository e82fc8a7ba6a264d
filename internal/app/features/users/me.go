package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	userstore "github.com/valera-kram/recipe-app-api/internal/app/store/users"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authutil"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type profileInput struct {
	Email    *string `json:"email" validate:"omitempty,notblank,max=255,email"`
	Password *string `json:"password" validate:"omitempty,notblank"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
}

// check validates the supplied fields. When partial is false (PUT), email
// and password are required.
func (in *profileInput) check(partial bool) *inputval.Result {
	in.Email = trimmed(in.Email)
	in.Name = trimmed(in.Name)

	res := inputval.Validate(in)
	if !partial {
		if in.Email == nil {
			res.Add("email", "This field is required.")
		}
		if in.Password == nil {
			res.Add("password", "This field is required.")
		}
	}
	if in.Password != nil && *in.Password != "" {
		if err := authutil.ValidatePassword(*in.Password); err != nil {
			res.Add("password", err.Error())
		}
	}
	return res
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// ServeMe returns the authenticated user's profile.
// GET /api/users/me
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := authz.OwnerID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load profile failed", err, "", zap.String("user_id", uid.Hex()))
		return
	}
	jsonio.Write(w, http.StatusOK, userView{Email: u.Email, Name: u.Name})
}

// HandleUpdateMe replaces (PUT) or patches (PATCH) the authenticated
// user's email, name, and password. A password change revokes the user's
// token; the client signs in again with the new password.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := authz.OwnerID(r)
	partial := r.Method == http.MethodPatch

	var in profileInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		if !(partial && errors.Is(err, jsonio.ErrEmptyBody)) {
			apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if res := in.check(partial); res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "profile update")
	defer cancel()

	u, err := h.Users.UpdateProfile(ctx, uid, userstore.ProfileUpdate{
		Email:    in.Email,
		Name:     in.Name,
		Password: in.Password,
	})
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apierrors.WriteField(w, "email", err.Error())
		return
	case errors.Is(err, userstore.ErrNotFound):
		apierrors.NotFound(w, r)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "update profile failed", err, "", zap.String("user_id", uid.Hex()))
		return
	}

	var changed []string
	if in.Email != nil {
		changed = append(changed, "email")
	}
	if in.Name != nil {
		changed = append(changed, "name")
	}
	if len(changed) > 0 {
		h.AuditLog.ProfileUpdated(ctx, r, uid, strings.Join(changed, ","))
	}
	if in.Password != nil {
		h.AuditLog.PasswordChanged(ctx, r, uid)
		if err := h.Tokens.DeleteForUser(ctx, uid); err != nil {
			h.ErrLog.LogServerError(w, r, "revoke token failed", err, "", zap.String("user_id", uid.Hex()))
			return
		}
	}

	jsonio.Write(w, http.StatusOK, userView{Email: u.Email, Name: u.Name})
}
