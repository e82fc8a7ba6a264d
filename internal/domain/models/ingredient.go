package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ingredient has the same shape as Tag but lives in its own collection.
type Ingredient struct {
	ID        int64              `bson:"_id" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	Name      string             `bson:"name" json:"name"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}

func (i Ingredient) String() string {
	return i.Name
}
