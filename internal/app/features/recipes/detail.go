package recipes

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	recipestore "github.com/valera-kram/recipe-app-api/internal/app/store/recipes"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"github.com/valera-kram/recipe-app-api/internal/app/system/txn"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.uber.org/zap"
)

// ServeDetail returns one of the caller's recipes. Recipes of other users
// are reported as not found.
// GET /api/recipes/{id}
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := recipeID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rec, err := h.Recipes.Get(ctx, owner, id)
	if errors.Is(err, recipestore.ErrNotFound) {
		apierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recipe failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	ix, err := h.loadLabels(ctx, owner, *rec)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recipe labels failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	jsonio.Write(w, http.StatusOK, h.detail(ix, *rec))
}

// HandleUpdate replaces (PUT) or patches (PATCH) a recipe. A tags or
// ingredients list, when present, replaces the whole association; an
// empty list clears it and an absent one leaves it alone.
// PUT|PATCH /api/recipes/{id}
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := recipeID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}
	partial := r.Method == http.MethodPatch

	var in recipeInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		if !(partial && errors.Is(err, jsonio.ErrEmptyBody)) {
			apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	in.normalize()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "recipe update")
	defer cancel()

	// Ownership before validation, so foreign ids are 404 whatever the body.
	if _, err := h.Recipes.Get(ctx, owner, id); err != nil {
		if errors.Is(err, recipestore.ErrNotFound) {
			apierrors.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "load recipe failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	if res := in.check(partial); res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	var (
		updated *models.Recipe
		labels  labelResult
	)
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		labels, err = h.reconcileLabels(ctx, owner, in.Tags, in.Ingredients)
		if err != nil {
			return err
		}
		upd := in.update()
		if in.Tags != nil {
			upd.TagIDs = &labels.tagIDs
		}
		if in.Ingredients != nil {
			upd.IngredientIDs = &labels.ingredientIDs
		}
		updated, err = h.Recipes.Update(ctx, owner, id, upd)
		return err
	})
	if errors.Is(err, recipestore.ErrNotFound) {
		apierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update recipe failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	h.countLabels(labels)

	ix, err := h.loadLabels(ctx, owner, *updated)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recipe labels failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	jsonio.Write(w, http.StatusOK, h.detail(ix, *updated))
}

// HandleDelete removes a recipe and, best effort, its stored image.
// DELETE /api/recipes/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := recipeID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "recipe delete")
	defer cancel()

	deleted, err := h.Recipes.Delete(ctx, owner, id)
	if errors.Is(err, recipestore.ErrNotFound) {
		apierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete recipe failed", err, "", zap.Int64("recipe_id", id))
		return
	}

	if deleted.HasImage() {
		h.removeImage(ctx, deleted.Image, id)
	}
	h.Log.Info("recipe deleted", zap.Int64("recipe_id", id), zap.String("user_id", owner.Hex()))
	jsonio.Write(w, http.StatusNoContent, nil)
}
