package recipes

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/storage"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	recipestore "github.com/valera-kram/recipe-app-api/internal/app/store/recipes"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authz"
	"github.com/valera-kram/recipe-app-api/internal/app/system/imagestore"
	"github.com/valera-kram/recipe-app-api/internal/app/system/jsonio"
	"github.com/valera-kram/recipe-app-api/internal/app/system/limits"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleUploadImage stores the multipart "image" file for a recipe and
// replaces the previous image. Anything that does not decode as an image
// is rejected and the recipe is left unchanged.
// POST /api/recipes/{id}/upload-image
func (h *Handler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	owner, _ := authz.OwnerID(r)
	id, ok := recipeID(r)
	if !ok {
		apierrors.NotFound(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Recipes.Get(ctx, owner, id); err != nil {
		if errors.Is(err, recipestore.ErrNotFound) {
			apierrors.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "load recipe failed", err, "", zap.Int64("recipe_id", id))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(limits.MultipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			apierrors.WriteField(w, "image", "The submitted file is too large.")
			return
		}
		apierrors.WriteField(w, "image", "No file was submitted.")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("image")
	if err != nil {
		apierrors.WriteField(w, "image", "No file was submitted.")
		return
	}
	defer file.Close()

	contentType, err := imagestore.Validate(file)
	if err != nil {
		apierrors.WriteField(w, "image", imagestore.ErrNotImage.Error())
		return
	}

	key := h.ImageKey(header.Filename)
	if err := h.Images.Put(ctx, key, file, &storage.PutOptions{ContentType: contentType}); err != nil {
		h.ErrLog.LogServerError(w, r, "store image failed", err, "", zap.Int64("recipe_id", id))
		return
	}

	previous, err := h.Recipes.SetImage(ctx, owner, id, key)
	if err != nil {
		h.removeImage(ctx, key, id)
		if errors.Is(err, recipestore.ErrNotFound) {
			apierrors.NotFound(w, r)
			return
		}
		h.ErrLog.LogServerError(w, r, "save image reference failed", err, "", zap.Int64("recipe_id", id))
		return
	}
	if previous != "" && previous != key {
		h.removeImage(ctx, previous, id)
	}

	h.Metrics.ImageUploaded()
	jsonio.Write(w, http.StatusOK, imageView{ID: id, Image: h.Images.URL(key)})
}

// removeImage deletes a stored object, logging instead of failing. An
// object that is already gone is not reported.
func (h *Handler) removeImage(ctx context.Context, key string, recipeID int64) {
	if h.Images == nil {
		return
	}
	if err := h.Images.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.Log.Warn("delete stored image failed",
			zap.Error(err),
			zap.String("key", key),
			zap.Int64("recipe_id", recipeID))
	}
}
