package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Token is the opaque credential issued by POST /api/users/token.
// Each user has at most one.
type Token struct {
	Key       string             `bson:"_id" json:"token"`
	UserID    primitive.ObjectID `bson:"user_id" json:"-"`
	CreatedAt time.Time          `bson:"created_at" json:"-"`
}
