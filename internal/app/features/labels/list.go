package labels

import (
	"context"
	"net/http"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/listfilter"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
)

// ServeList returns the caller's labels, name descending. With
// assigned_only=1 only labels attached to at least one of the caller's
// recipes are returned.
// GET /api/tags, GET /api/ingredients
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)

	assigned, err := listfilter.ParseAssignedOnly(r.URL.Query().Get("assigned_only"))
	if err != nil {
		apierrors.WriteField(w, "assigned_only", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var only []int64
	if assigned {
		only, err = h.Recipes.DistinctLabelIDs(ctx, owner, h.kind().RecipeField)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "distinct "+h.kind().Name+" ids failed", err, "")
			return
		}
		if len(only) == 0 {
			jsonio.Write(w, http.StatusOK, []T{})
			return
		}
	}

	items, err := h.Labels.List(ctx, owner, only)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list "+h.kind().Collection+" failed", err, "")
		return
	}
	if items == nil {
		items = []T{}
	}
	jsonio.Write(w, http.StatusOK, items)
}
