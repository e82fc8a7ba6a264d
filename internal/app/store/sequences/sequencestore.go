// Package sequencestore hands out monotonically increasing int64 ids from
// the counters collection. Recipes, tags and ingredients use them as _id
// so that "newest first" is "_id descending".
package sequencestore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Sequence names.
const (
	Recipes     = "recipes"
	Tags        = "tags"
	Ingredients = "ingredients"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("counters")}
}

// Next increments and returns the named counter; the first value is 1.
func (s *Store) Next(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var doc struct {
		Seq int64 `bson:"seq"`
	}
	// Two first-time upserts can race on _id; the loser retries and finds
	// the document.
	for attempt := 0; attempt < 2; attempt++ {
		err := s.c.FindOneAndUpdate(ctx,
			bson.M{"_id": name},
			bson.M{"$inc": bson.M{"seq": int64(1)}},
			opts,
		).Decode(&doc)
		if err == nil {
			return doc.Seq, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return 0, fmt.Errorf("next %s id: %w", name, err)
		}
	}
	return 0, errors.New("next " + name + " id: upsert kept conflicting")
}
