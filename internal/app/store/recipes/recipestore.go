package recipestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	sequencestore "github.com/valera-kram/recipe-app-api/internal/app/store/sequences"
	"github.com/valera-kram/recipe-app-api/internal/app/system/listfilter"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Label fields on recipe documents.
const (
	FieldTags        = "tag_ids"
	FieldIngredients = "ingredient_ids"
)

var (
	// ErrNotFound is returned when the recipe does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("recipe not found")
	errBadField = errors.New("unknown label field")
)

type Store struct {
	c   *mongo.Collection
	seq *sequencestore.Store
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:   db.Collection("recipes"),
		seq: sequencestore.New(db),
	}
}

func ownerScope(owner primitive.ObjectID, id int64) bson.M {
	return bson.M{"_id": id, "user_id": owner}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

// List returns owner's recipes newest first, optionally restricted to
// those carrying any of tagIDs and any of ingredientIDs.
func (s *Store) List(ctx context.Context, owner primitive.ObjectID, tagIDs, ingredientIDs []int64) ([]models.Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, listfilter.RecipeFilter(owner, tagIDs, ingredientIDs), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Recipe{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get loads one of owner's recipes.
func (s *Store) Get(ctx context.Context, owner primitive.ObjectID, id int64) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.c.FindOne(ctx, ownerScope(owner, id)).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// Create inserts r for r.UserID, assigning the id and timestamps.
func (s *Store) Create(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	if r.UserID.IsZero() {
		return models.Recipe{}, errors.New("recipe owner is required")
	}
	id, err := s.seq.Next(ctx, sequencestore.Recipes)
	if err != nil {
		return models.Recipe{}, err
	}
	now := time.Now().UTC()
	r.ID = id
	r.TagIDs = nonNil(r.TagIDs)
	r.IngredientIDs = nonNil(r.IngredientIDs)
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.Recipe{}, fmt.Errorf("insert recipe: %w", err)
	}
	return r, nil
}

// Update holds the recipe fields a write may change. Nil fields are left
// untouched; a non-nil empty id list clears the association.
type Update struct {
	Title         *string
	Description   *string
	TimeMinutes   *int
	Price         *models.Price
	Link          *string
	TagIDs        *[]int64
	IngredientIDs *[]int64
}

func (u Update) set() bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.TimeMinutes != nil {
		set["time_minutes"] = *u.TimeMinutes
	}
	if u.Price != nil {
		set["price"] = *u.Price
	}
	if u.Link != nil {
		set["link"] = *u.Link
	}
	if u.TagIDs != nil {
		set[FieldTags] = nonNil(*u.TagIDs)
	}
	if u.IngredientIDs != nil {
		set[FieldIngredients] = nonNil(*u.IngredientIDs)
	}
	return set
}

// Update applies upd to one of owner's recipes in a single document write
// and returns the result. The owner itself is never changed.
func (s *Store) Update(ctx context.Context, owner primitive.ObjectID, id int64, upd Update) (*models.Recipe, error) {
	var r models.Recipe
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, ownerScope(owner, id), bson.M{"$set": upd.set()}, opts).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

// SetImage records key as the recipe's image and returns the key it
// replaced, if any.
func (s *Store) SetImage(ctx context.Context, owner primitive.ObjectID, id int64, key string) (previous string, err error) {
	var before models.Recipe
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.Before).
		SetProjection(bson.M{"image": 1})
	err = s.c.FindOneAndUpdate(ctx, ownerScope(owner, id), bson.M{"$set": bson.M{
		"image":      key,
		"updated_at": time.Now().UTC(),
	}}, opts).Decode(&before)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrNotFound
		}
		return "", err
	}
	return before.Image, nil
}

// Delete removes one of owner's recipes and returns what was deleted so
// the caller can clean up its image.
func (s *Store) Delete(ctx context.Context, owner primitive.ObjectID, id int64) (*models.Recipe, error) {
	var r models.Recipe
	if err := s.c.FindOneAndDelete(ctx, ownerScope(owner, id)).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func checkField(field string) error {
	if field != FieldTags && field != FieldIngredients {
		return fmt.Errorf("%w: %q", errBadField, field)
	}
	return nil
}

// PullLabel detaches labelID from every recipe of owner. field is
// FieldTags or FieldIngredients.
func (s *Store) PullLabel(ctx context.Context, owner primitive.ObjectID, field string, labelID int64) (int64, error) {
	if err := checkField(field); err != nil {
		return 0, err
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{"user_id": owner, field: labelID},
		bson.M{"$pull": bson.M{field: labelID}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// DistinctLabelIDs returns the label ids referenced by at least one of
// owner's recipes. The result is never nil.
func (s *Store) DistinctLabelIDs(ctx context.Context, owner primitive.ObjectID, field string) ([]int64, error) {
	if err := checkField(field); err != nil {
		return nil, err
	}
	raw, err := s.c.Distinct(ctx, field, bson.M{"user_id": owner})
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int64:
			ids = append(ids, n)
		case int32:
			ids = append(ids, int64(n))
		}
	}
	return ids, nil
}
