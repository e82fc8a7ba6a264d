// Package metricsstore counts the documents behind the catalog gauges.
package metricsstore

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of totals exported as catalog gauges.
type Counts struct {
	Users       int64
	ActiveUsers int64
	Tokens      int64
	Recipes     int64
	Tags        int64
	Ingredients int64
}

// ByCollection returns the counts keyed by the gauge's collection label.
func (c Counts) ByCollection() map[string]int64 {
	return map[string]int64{
		"users":        c.Users,
		"users_active": c.ActiveUsers,
		"tokens":       c.Tokens,
		"recipes":      c.Recipes,
		"tags":         c.Tags,
		"ingredients":  c.Ingredients,
	}
}

// FetchCatalogCounts returns document totals across all users.
// Intentionally tolerant: on error it returns 0 for that counter and
// reports the first error seen.
func FetchCatalogCounts(ctx context.Context, db *mongo.Database) (Counts, error) {
	var (
		out      Counts
		firstErr error
	)
	count := func(coll string, filter bson.M, dst *int64) {
		n, err := db.Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return
		}
		*dst = n
	}

	count("users", bson.M{}, &out.Users)
	count("users", bson.M{"is_active": true}, &out.ActiveUsers)
	count("tokens", bson.M{}, &out.Tokens)
	count("recipes", bson.M{}, &out.Recipes)
	count("tags", bson.M{}, &out.Tags)
	count("ingredients", bson.M{}, &out.Ingredients)

	return out, firstErr
}
