// Package labelstore stores the per-user name labels attached to recipes.
// Tags and ingredients share one implementation; each lives in its own
// collection with its own id sequence.
package labelstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	sequencestore "github.com/valera-kram/recipe-app-api/internal/app/store/sequences"
	"github.com/valera-kram/recipe-app-api/internal/app/system/listfilter"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no label with the id belongs to the owner.
	ErrNotFound = errors.New("label not found")
	// ErrDuplicateName is returned when a rename collides with another label
	// of the same owner.
	ErrDuplicateName = errors.New("a label with this name already exists")
)

// Kind describes one label collection.
type Kind struct {
	Name        string // singular, used in logs and metrics
	Collection  string
	Sequence    string
	RecipeField string // array of ids on recipe documents
}

var (
	TagKind = Kind{
		Name:        "tag",
		Collection:  "tags",
		Sequence:    sequencestore.Tags,
		RecipeField: "tag_ids",
	}
	IngredientKind = Kind{
		Name:        "ingredient",
		Collection:  "ingredients",
		Sequence:    sequencestore.Ingredients,
		RecipeField: "ingredient_ids",
	}
)

// doc is the stored shape shared by models.Tag and models.Ingredient.
type doc struct {
	ID        int64              `bson:"_id"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Store is a label collection whose documents decode to T.
type Store[T any] struct {
	kind  Kind
	c     *mongo.Collection
	seq   *sequencestore.Store
	build func(doc) T
}

// NewTags returns the tag store.
func NewTags(db *mongo.Database) *Store[models.Tag] {
	return newStore(db, TagKind, func(d doc) models.Tag { return models.Tag(d) })
}

// NewIngredients returns the ingredient store.
func NewIngredients(db *mongo.Database) *Store[models.Ingredient] {
	return newStore(db, IngredientKind, func(d doc) models.Ingredient { return models.Ingredient(d) })
}

func newStore[T any](db *mongo.Database, kind Kind, build func(doc) T) *Store[T] {
	return &Store[T]{
		kind:  kind,
		c:     db.Collection(kind.Collection),
		seq:   sequencestore.New(db),
		build: build,
	}
}

// Kind reports which collection the store serves.
func (s *Store[T]) Kind() Kind { return s.kind }

/*─────────────────────────────────────────────────────────────────────────────*
| Reconciliation                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// GetOrCreate returns the id of owner's label with exactly this name,
// inserting it when absent. created reports whether a row was inserted.
//
// Two writers creating the same name collide on the unique (user_id, name)
// index; the loser re-reads and returns the winner's id.
func (s *Store[T]) GetOrCreate(ctx context.Context, owner primitive.ObjectID, name string) (int64, bool, error) {
	if id, ok, err := s.idByName(ctx, owner, name); err != nil || ok {
		return id, false, err
	}

	id, err := s.seq.Next(ctx, s.kind.Sequence)
	if err != nil {
		return 0, false, err
	}
	d := doc{ID: id, UserID: owner, Name: name, CreatedAt: time.Now().UTC()}
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if !wafflemongo.IsDup(err) {
			return 0, false, fmt.Errorf("insert %s: %w", s.kind.Name, err)
		}
		existing, ok, rerr := s.idByName(ctx, owner, name)
		if rerr != nil {
			return 0, false, rerr
		}
		if !ok {
			return 0, false, fmt.Errorf("insert %s: %w", s.kind.Name, err)
		}
		return existing, false, nil
	}
	return id, true, nil
}

func (s *Store[T]) idByName(ctx context.Context, owner primitive.ObjectID, name string) (int64, bool, error) {
	var d struct {
		ID int64 `bson:"_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"_id": 1})
	err := s.c.FindOne(ctx, bson.M{"user_id": owner, "name": name}, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return d.ID, true, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Queries                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// List returns owner's labels by name descending. A nil onlyIDs means no
// restriction; an empty non-nil slice yields nothing.
func (s *Store[T]) List(ctx context.Context, owner primitive.ObjectID, onlyIDs []int64) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, listfilter.LabelFilter(owner, onlyIDs), opts)
}

// Get returns one of owner's labels.
func (s *Store[T]) Get(ctx context.Context, owner primitive.ObjectID, id int64) (T, error) {
	var d doc
	err := s.c.FindOne(ctx, bson.M{"_id": id, "user_id": owner}).Decode(&d)
	if err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return s.build(d), nil
}

// ByIDs returns owner's labels for ids, keyed by id. Ids that do not
// exist or belong to someone else are absent from the map.
func (s *Store[T]) ByIDs(ctx context.Context, owner primitive.ObjectID, ids []int64) (map[int64]T, error) {
	out := make(map[int64]T, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"user_id": owner, "_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var d doc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out[d.ID] = s.build(d)
	}
	return out, cur.Err()
}

func (s *Store[T]) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []T{}
	for cur.Next(ctx) {
		var d doc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, s.build(d))
	}
	return out, cur.Err()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Mutations                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// Rename changes the name of one of owner's labels.
func (s *Store[T]) Rename(ctx context.Context, owner primitive.ObjectID, id int64, name string) (T, error) {
	var (
		d    doc
		zero T
	)
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "user_id": owner},
		bson.M{"$set": bson.M{"name": name}},
		opts,
	).Decode(&d)
	switch {
	case err == nil:
		return s.build(d), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return zero, ErrNotFound
	case wafflemongo.IsDup(err):
		return zero, ErrDuplicateName
	}
	return zero, err
}

// Delete removes one of owner's labels. Detaching it from recipes is the
// caller's job (see recipestore.PullLabel).
func (s *Store[T]) Delete(ctx context.Context, owner primitive.ObjectID, id int64) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "user_id": owner})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIDs removes the listed labels of owner and reports how many went.
// Ids that are missing or belong to someone else are skipped.
func (s *Store[T]) DeleteIDs(ctx context.Context, owner primitive.ObjectID, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}, "user_id": owner})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
