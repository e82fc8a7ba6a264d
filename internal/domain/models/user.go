// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that owns recipes, tags, and ingredients.
//
// Email is stored normalized (domain lowercased, local part as given) and
// is unique across users. PasswordHash is a bcrypt hash and never leaves
// the server.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	IsActive    bool `bson:"is_active" json:"is_active"`
	IsStaff     bool `bson:"is_staff" json:"is_staff"`
	IsSuperuser bool `bson:"is_superuser" json:"is_superuser"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

func (u User) String() string {
	return u.Email
}
