package recipes

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	apierrors "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	labelstore "github.com/valera-kram/recipe-app-api/internal/app/store/labels"
	recipestore "github.com/valera-kram/recipe-app-api/internal/app/store/recipes"
	"github.com/valera-kram/recipe-app-api/internal/app/system/imagestore"
	"github.com/valera-kram/recipe-app-api/internal/app/system/limits"
	"github.com/valera-kram/recipe-app-api/internal/app/system/metrics"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the recipe endpoints.
type Handler struct {
	DB          *mongo.Database
	Recipes     *recipestore.Store
	Tags        *labelstore.Store[models.Tag]
	Ingredients *labelstore.Store[models.Ingredient]

	Images         storage.Store
	ImageKey       imagestore.KeyFunc
	MaxUploadBytes int64

	Metrics *metrics.Metrics
	Log     *zap.Logger
	ErrLog  *apierrors.ErrorLogger
}

// NewHandler constructs a Handler. A nil keyFn generates uuid keys; m may
// be nil.
func NewHandler(db *mongo.Database, images storage.Store, keyFn imagestore.KeyFunc, m *metrics.Metrics, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if keyFn == nil {
		keyFn = imagestore.NewKeyFunc(nil)
	}
	return &Handler{
		DB:             db,
		Recipes:        recipestore.New(db),
		Tags:           labelstore.NewTags(db),
		Ingredients:    labelstore.NewIngredients(db),
		Images:         images,
		ImageKey:       keyFn,
		MaxUploadBytes: limits.DefaultImageUpload,
		Metrics:        m,
		Log:            logger,
		ErrLog:         errLog,
	}
}

// recipeID parses the {id} URL parameter. ok is false for anything that
// is not a positive integer.
func recipeID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
