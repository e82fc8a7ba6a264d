// Package labels serves the tag and ingredient endpoints. Both kinds share
// one generic handler; bootstrap mounts it at /api/tags and
// /api/ingredients.
package labels

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	labelstore "github.com/valera-kram/recipe-app-api/internal/app/store/labels"
	recipestore "github.com/valera-kram/recipe-app-api/internal/app/store/recipes"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the list, rename and delete endpoints of one label kind.
type Handler[T any] struct {
	DB      *mongo.Database
	Labels  *labelstore.Store[T]
	Recipes *recipestore.Store

	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

// NewTagHandler returns the handler for /api/tags.
func NewTagHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler[models.Tag] {
	return newHandler(db, labelstore.NewTags(db), errLog, logger)
}

// NewIngredientHandler returns the handler for /api/ingredients.
func NewIngredientHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler[models.Ingredient] {
	return newHandler(db, labelstore.NewIngredients(db), errLog, logger)
}

func newHandler[T any](db *mongo.Database, store *labelstore.Store[T], errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler[T] {
	return &Handler[T]{
		DB:      db,
		Labels:  store,
		Recipes: recipestore.New(db),
		Log:     logger,
		ErrLog:  errLog,
	}
}

func (h *Handler[T]) kind() labelstore.Kind { return h.Labels.Kind() }

func labelID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
