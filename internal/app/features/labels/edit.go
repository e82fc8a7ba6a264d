package labels

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	labelstore "github.com/valera-kram/recipe-app-api/internal/app/store/labels"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/inputval"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/normalize"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"github.com/valera-kram/recipe-app-api/internal/app/system/txn"
	"go.uber.org/zap"
)

type labelInput struct {
	Name *string `json:"name" validate:"omitempty,max=255"`
}

func (in *labelInput) check(partial bool) *inputval.Result {
	if in.Name != nil {
		n := normalize.Name(*in.Name)
		in.Name = &n
	}
	res := inputval.Validate(in)
	switch {
	case in.Name == nil && !partial:
		res.Add("name", "This field is required.")
	case in.Name != nil && *in.Name == "":
		res.Add("name", "This field may not be blank.")
	}
	return res
}

// HandleUpdate renames one of the caller's labels. PATCH without a name
// leaves the label unchanged.
// PUT|PATCH /api/tags/{id}, /api/ingredients/{id}
func (h *Handler[T]) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := labelID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}
	partial := r.Method == http.MethodPatch

	var in labelInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		if !(partial && errors.Is(err, jsonio.ErrEmptyBody)) {
			apierrors.WriteDetail(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Labels.Get(ctx, owner, id)
	if errors.Is(err, labelstore.ErrNotFound) {
		apierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load "+h.kind().Name+" failed", err, "", zap.Int64("label_id", id))
		return
	}
	if res := in.check(partial); res.HasErrors() {
		apierrors.WriteValidation(w, res)
		return
	}
	if in.Name == nil {
		jsonio.Write(w, http.StatusOK, current)
		return
	}

	renamed, err := h.Labels.Rename(ctx, owner, id, *in.Name)
	switch {
	case errors.Is(err, labelstore.ErrNotFound):
		apierrors.NotFound(w, r)
		return
	case errors.Is(err, labelstore.ErrDuplicateName):
		apierrors.WriteField(w, "name", "This name is already in use.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "rename "+h.kind().Name+" failed", err, "", zap.Int64("label_id", id))
		return
	}
	jsonio.Write(w, http.StatusOK, renamed)
}

// HandleDelete removes one of the caller's labels and detaches it from
// every recipe that referenced it.
// DELETE /api/tags/{id}, /api/ingredients/{id}
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := labelID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, h.kind().Name+" delete")
	defer cancel()

	var detached int64
	err := txn.Run(ctx, h.DB, h.Log, func(ctx context.Context) error {
		if err := h.Labels.Delete(ctx, owner, id); err != nil {
			return err
		}
		var err error
		detached, err = h.Recipes.PullLabel(ctx, owner, h.kind().RecipeField, id)
		return err
	})
	if errors.Is(err, labelstore.ErrNotFound) {
		apierrors.NotFound(w, r)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete "+h.kind().Name+" failed", err, "", zap.Int64("label_id", id))
		return
	}

	h.Log.Info(h.kind().Name+" deleted",
		zap.Int64("label_id", id),
		zap.Int64("recipes_detached", detached),
		zap.String("user_id", owner.Hex()))
	jsonio.Write(w, http.StatusNoContent, nil)
}
