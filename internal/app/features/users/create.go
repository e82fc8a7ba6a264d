package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	userstore "github.com/valera-kram/recipe-app-api/internal/app/store/users"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authutil"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type createInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=255"`
}

// HandleCreate registers a new account.
// POST /api/users
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	res := inputval.Validate(in)
	if in.Password != "" {
		if err := authutil.ValidatePassword(in.Password); err != nil {
			res.Add("password", err.Error())
		}
	}
	if res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.CreateUser(ctx, in.Email, in.Password, in.Name)
	switch {
	case errors.Is(err, userstore.ErrDuplicateEmail):
		apierrors.WriteField(w, "email", err.Error())
		return
	case errors.Is(err, userstore.ErrEmailRequired):
		apierrors.WriteField(w, "email", "This field is required.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "create user failed", err, "")
		return
	}

	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()))
	h.AuditLog.UserCreated(ctx, r, u.ID, u.Email)
	jsonio.Write(w, http.StatusCreated, userView{Email: u.Email, Name: u.Name})
}
