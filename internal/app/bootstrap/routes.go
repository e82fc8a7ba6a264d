// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	auditlogfeature "github.com/valera-kram/recipe-app-api/internal/app/features/auditlog"
	errorsfeature "github.com/valera-kram/recipe-app-api/internal/app/features/errors"
	healthfeature "github.com/valera-kram/recipe-app-api/internal/app/features/health"
	labelsfeature "github.com/valera-kram/recipe-app-api/internal/app/features/labels"
	recipesfeature "github.com/valera-kram/recipe-app-api/internal/app/features/recipes"
	usersfeature "github.com/valera-kram/recipe-app-api/internal/app/features/users"
	tokenstore "github.com/valera-kram/recipe-app-api/internal/app/store/tokens"
	userstore "github.com/valera-kram/recipe-app-api/internal/app/store/users"
	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"github.com/valera-kram/recipe-app-api/internal/app/system/metrics"
	"github.com/valera-kram/recipe-app-api/internal/app/system/tasks"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for the API.
//
// Every request gets a request id and is counted by the metrics
// middleware. A valid Authorization header attaches the caller to the
// request context; feature routers decide whether a caller is required.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	images, err := newImageStore(appCfg)
	if err != nil {
		logger.Error("image storage init failed", zap.Error(err))
		return nil, err
	}

	m := metrics.New()
	errLog := errorsfeature.NewErrorLogger(logger)
	auditLog := newAuditLogger(appCfg, deps, logger)
	authn := auth.NewAuthenticator(tokenstore.New(db), userstore.NewFetcher(db), logger)

	deps.Background.Add(tasks.CatalogGaugesJob(db, m, logger))
	deps.Background.Start()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(m.Middleware)
	r.Use(authn.LoadUser)
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, images.Backend(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", m.Handler())

	// Uploaded images, local backend only; S3 URLs point at the bucket.
	if images.Backend() == "local" {
		prefix := strings.TrimRight(appCfg.StorageLocalURL, "/")
		r.Handle(prefix+"/*", fileserver.Handler(prefix, appCfg.StorageLocalPath))
	}

	// Accounts and tokens
	usersHandler := usersfeature.NewHandler(db, auditLog, m, errLog, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, appCfg.TokenRateLimit))

	// Catalog
	recipesHandler := recipesfeature.NewHandler(db, images, nil, m, errLog, logger)
	recipesHandler.MaxUploadBytes = int64(appCfg.MaxUploadMB) << 20
	r.Mount("/api/recipes", recipesfeature.Routes(recipesHandler))

	tagsHandler := labelsfeature.NewTagHandler(db, errLog, logger)
	r.Mount("/api/tags", labelsfeature.Routes(tagsHandler))

	ingredientsHandler := labelsfeature.NewIngredientHandler(db, errLog, logger)
	r.Mount("/api/ingredients", labelsfeature.Routes(ingredientsHandler))

	auditHandler := auditlogfeature.NewHandler(db, errLog, logger)
	r.Mount("/api/audit", auditlogfeature.Routes(auditHandler))

	return r, nil
}

// newImageStore builds the configured backend. Local files are served by
// this process under StorageLocalURL; S3 URLs point at the bucket or
// StorageS3PublicURL.
func newImageStore(appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "s3":
		ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
		defer cancel()
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Region:  appCfg.StorageS3Region,
			Bucket:  appCfg.StorageS3Bucket,
			Prefix:  appCfg.StorageS3Prefix,
			BaseURL: strings.TrimRight(appCfg.StorageS3PublicURL, "/"),
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		local, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  strings.TrimRight(appCfg.StorageLocalURL, "/"),
		})
		if err != nil {
			return nil, err
		}
		return local, nil
	}
}
