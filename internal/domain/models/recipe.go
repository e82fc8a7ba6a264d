// internal/domain/models/recipe.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipe belongs to exactly one user. The owner is fixed at creation.
//
// Tags and ingredients are referenced by id; both sets always belong to
// the same owner as the recipe. Image holds the storage key of the
// uploaded picture, not a URL.
type Recipe struct {
	ID     int64              `bson:"_id" json:"id"`
	UserID primitive.ObjectID `bson:"user_id" json:"-"`

	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	TimeMinutes int    `bson:"time_minutes" json:"time_minutes"`
	Price       Price  `bson:"price" json:"price"`
	Link        string `bson:"link" json:"link"`
	Image       string `bson:"image,omitempty" json:"image,omitempty"`

	TagIDs        []int64 `bson:"tag_ids" json:"tag_ids"`
	IngredientIDs []int64 `bson:"ingredient_ids" json:"ingredient_ids"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (r Recipe) String() string {
	return r.Title
}

// HasImage reports whether an image has been uploaded for the recipe.
func (r *Recipe) HasImage() bool {
	return r.Image != ""
}
