package userstore

import (
	"context"

	"github.com/valera-kram/recipe-app-api/internal/app/system/auth"
	"github.com/valera-kram/recipe-app-api/internal/app/system/timeouts"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Fetcher implements auth.UserFetcher to load fresh user data on each request.
type Fetcher struct {
	users *mongo.Collection
}

// NewFetcher creates a UserFetcher that queries the given database.
func NewFetcher(db *mongo.Database) *Fetcher {
	return &Fetcher{users: db.Collection("users")}
}

// FetchUser retrieves a user by ID and returns nil if the user is not found,
// inactive, or if any error occurs.
func (f *Fetcher) FetchUser(ctx context.Context, id primitive.ObjectID) *auth.Principal {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	var u models.User
	proj := options.FindOne().SetProjection(bson.M{
		"_id":          1,
		"email":        1,
		"name":         1,
		"is_active":    1,
		"is_staff":     1,
		"is_superuser": 1,
	})
	if err := f.users.FindOne(ctx, bson.M{"_id": id}, proj).Decode(&u); err != nil {
		return nil
	}
	if !u.IsActive {
		return nil
	}

	return &auth.Principal{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
	}
}
