package recipes

import (
	"context"
	"net/http"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/listfilter"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ServeList returns the caller's recipes, newest first.
//
// Query parameters tags and ingredients take comma-separated ids; a recipe
// matches when it has any of the tag ids and any of the ingredient ids.
// GET /api/recipes
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	q := r.URL.Query()

	fieldErrs := map[string][]string{}
	tagIDs, err := listfilter.ParseIDs(q.Get("tags"))
	if err != nil {
		fieldErrs["tags"] = []string{err.Error()}
	}
	ingIDs, err := listfilter.ParseIDs(q.Get("ingredients"))
	if err != nil {
		fieldErrs["ingredients"] = []string{err.Error()}
	}
	if len(fieldErrs) > 0 {
		apierrors.WriteFields(w, fieldErrs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rs, err := h.Recipes.List(ctx, owner, tagIDs, ingIDs)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list recipes failed", err, "", zap.String("user_id", owner.Hex()))
		return
	}
	ix, err := h.loadLabels(ctx, owner, rs...)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recipe labels failed", err, "", zap.String("user_id", owner.Hex()))
		return
	}

	out := make([]recipeView, 0, len(rs))
	for _, rec := range rs {
		out = append(out, ix.view(rec))
	}
	jsonio.Write(w, http.StatusOK, out)
}
