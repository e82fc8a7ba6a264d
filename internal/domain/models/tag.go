package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tag is a user-owned label attached to recipes.
type Tag struct {
	ID        int64              `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}

func (t Tag) String() string {
	return t.Name
}

// NameRef is a {name} record embedded in recipe writes for tags and
// ingredients.
type NameRef struct {
	Name string `json:"name" validate:"required,max=255"`
}
