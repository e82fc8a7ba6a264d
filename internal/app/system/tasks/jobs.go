// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	metricsstore "github.com/valera-kram/recipe-app-api/internal/app/store/metrics"
	"github.com/valera-kram/recipe-app-api/internal/app/system/metrics"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Job is a named unit of periodic background work.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// CatalogGaugesJob refreshes the catalog_documents gauges from the
// collection counts. Partial counts are still exported when one count
// fails.
func CatalogGaugesJob(db *mongo.Database, m *metrics.Metrics, logger *zap.Logger) Job {
	return Job{
		Name:     "catalog-gauges",
		Interval: 1 * time.Minute,
		Run: func(ctx context.Context) error {
			counts, err := metricsstore.FetchCatalogCounts(ctx, db)
			for coll, n := range counts.ByCollection() {
				m.SetDocuments(coll, n)
			}
			if err != nil {
				return err
			}
			logger.Debug("catalog gauges refreshed",
				zap.Int64("recipes", counts.Recipes),
				zap.Int64("users", counts.Users))
			return nil
		},
	}
}
