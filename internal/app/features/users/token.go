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

const msgBadCredentials = "Unable to authenticate with provided credentials."

type tokenInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type tokenView struct {
	Token string `json:"token"`
}

// HandleToken exchanges email and password for the user's API token.
// Unknown email, wrong password, and inactive account all produce the
// same 400 so the response does not reveal which accounts exist.
// POST /api/users/token
func (h *Handler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var in tokenInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Email = strings.TrimSpace(in.Email)

	if res := inputval.Validate(in); res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, userstore.ErrNotFound) {
		h.AuditLog.TokenFailedUserNotFound(ctx, r, in.Email)
		h.Metrics.TokenFailure()
		h.ErrLog.LogBadRequest(w, r, "token refused: unknown email", nil, msgBadCredentials)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "token: user lookup failed", err, "")
		return
	}

	if !authutil.CheckPassword(in.Password, u.PasswordHash) {
		h.AuditLog.TokenFailedWrongPassword(ctx, r, u.ID)
		h.Metrics.TokenFailure()
		h.ErrLog.LogBadRequest(w, r, "token refused: wrong password", nil, msgBadCredentials,
			zap.String("user_id", u.ID.Hex()))
		return
	}
	if !u.IsActive {
		h.AuditLog.TokenFailedInactive(ctx, r, u.ID)
		h.Metrics.TokenFailure()
		h.ErrLog.LogBadRequest(w, r, "token refused: inactive user", nil, msgBadCredentials,
			zap.String("user_id", u.ID.Hex()))
		return
	}

	tok, err := h.Tokens.GetOrCreate(ctx, u.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "token: issue failed", err, "",
			zap.String("user_id", u.ID.Hex()))
		return
	}

	h.AuditLog.TokenIssued(ctx, r, u.ID, u.Email)
	jsonio.Write(w, http.StatusOK, tokenView{Token: tok.Key})
}
