package recipes

import (
	"context"
	"net/http"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	labelstore "github.com/valera-kram/recipe-app-api/internal/app/store/labels"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/reconcile"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"github.com/valera-kram/recipe-app-api/internal/app/system/txn"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// labelResult is the outcome of reconciling one request's nested labels.
type labelResult struct {
	tagIDs, ingredientIDs       []int64
	tagsCreated, ingredsCreated []int64
}

// reconcileLabels gets or creates the named tags and ingredients for
// owner. A nil list is skipped and leaves its ids nil. Labels it creates
// are removed again if the surrounding write fails without a transaction.
func (h *Handler) reconcileLabels(ctx context.Context, owner primitive.ObjectID, tags, ingredients []models.NameRef) (labelResult, error) {
	var (
		res labelResult
		err error
	)
	if tags != nil {
		res.tagIDs, res.tagsCreated, err = reconcile.Names(ctx, h.Tags, owner, tags)
		undoCreated(ctx, h.Tags, owner, res.tagsCreated)
		if err != nil {
			return labelResult{}, err
		}
	}
	if ingredients != nil {
		res.ingredientIDs, res.ingredsCreated, err = reconcile.Names(ctx, h.Ingredients, owner, ingredients)
		undoCreated(ctx, h.Ingredients, owner, res.ingredsCreated)
		if err != nil {
			return labelResult{}, err
		}
	}
	return res, nil
}

func undoCreated[T any](ctx context.Context, store *labelstore.Store[T], owner primitive.ObjectID, ids []int64) {
	if len(ids) == 0 {
		return
	}
	txn.OnRollback(ctx, func(ctx context.Context) error {
		_, err := store.DeleteIDs(ctx, owner, ids)
		return err
	})
}

func (h *Handler) countLabels(res labelResult) {
	h.Metrics.LabelsCreated(labelstore.TagKind.Name, len(res.tagsCreated))
	h.Metrics.LabelsCreated(labelstore.IngredientKind.Name, len(res.ingredsCreated))
}

// HandleCreate creates a recipe for the caller. Nested tags and
// ingredients are matched by exact name against the caller's own labels
// and created when missing; all writes share one transaction.
// POST /api/recipes
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)

	var in recipeInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	in.normalize()
	if res := in.check(false); res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "recipe create")
	defer cancel()

	var (
		created models.Recipe
		labels  labelResult
	)
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		var err error
		labels, err = h.reconcileLabels(ctx, owner, in.Tags, in.Ingredients)
		if err != nil {
			return err
		}
		created, err = h.Recipes.Create(ctx, in.recipe(owner, labels.tagIDs, labels.ingredientIDs))
		return err
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create recipe failed", err, "", zap.String("user_id", owner.Hex()))
		return
	}
	h.Metrics.RecipeCreated()
	h.countLabels(labels)

	ix, err := h.loadLabels(ctx, owner, created)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load recipe labels failed", err, "", zap.Int64("recipe_id", created.ID))
		return
	}
	jsonio.Write(w, http.StatusCreated, h.detail(ix, created))
}
