package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	sequencestore "github.com/valera-kram/recipe-app-api/internal/app/store/sequences"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authutil"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DefaultPassword is the password given to fixture users.
const DefaultPassword = "testpass123"

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db  *mongo.Database
	t   *testing.T
	seq *sequencestore.Store
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t, seq: sequencestore.New(db)}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) nextID(ctx context.Context, name string) int64 {
	f.t.Helper()
	id, err := f.seq.Next(ctx, name)
	if err != nil {
		f.t.Fatalf("failed to allocate %s id: %v", name, err)
	}
	return id
}

// CreateUser creates an active user with DefaultPassword.
func (f *Fixtures) CreateUser(ctx context.Context, email, name string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword(DefaultPassword)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateInactiveUser creates a user that may not log in.
func (f *Fixtures) CreateInactiveUser(ctx context.Context, email string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, email, "")
	_, err := f.db.Collection("users").UpdateByID(ctx, u.ID, bson.M{
		"$set": bson.M{"is_active": false},
	})
	if err != nil {
		f.t.Fatalf("failed to deactivate test user: %v", err)
	}
	u.IsActive = false
	return u
}

// CreateToken stores a token for the user.
func (f *Fixtures) CreateToken(ctx context.Context, userID primitive.ObjectID, key string) models.Token {
	f.t.Helper()

	tok := models.Token{Key: key, UserID: userID, CreatedAt: time.Now().UTC()}
	if _, err := f.db.Collection("tokens").InsertOne(ctx, tok); err != nil {
		f.t.Fatalf("failed to create test token: %v", err)
	}
	return tok
}

// CreateTag creates a tag owned by owner.
func (f *Fixtures) CreateTag(ctx context.Context, owner primitive.ObjectID, name string) models.Tag {
	f.t.Helper()

	tag := models.Tag{
		ID:        f.nextID(ctx, sequencestore.Tags),
		UserID:    owner,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("tags").InsertOne(ctx, tag); err != nil {
		f.t.Fatalf("failed to create test tag: %v", err)
	}
	return tag
}

// CreateIngredient creates an ingredient owned by owner.
func (f *Fixtures) CreateIngredient(ctx context.Context, owner primitive.ObjectID, name string) models.Ingredient {
	f.t.Helper()

	ing := models.Ingredient{
		ID:        f.nextID(ctx, sequencestore.Ingredients),
		UserID:    owner,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("ingredients").InsertOne(ctx, ing); err != nil {
		f.t.Fatalf("failed to create test ingredient: %v", err)
	}
	return ing
}

// RecipeOption adjusts a fixture recipe before it is stored.
type RecipeOption func(*models.Recipe)

// WithTags attaches tags to a fixture recipe.
func WithTags(tags ...models.Tag) RecipeOption {
	return func(r *models.Recipe) {
		for _, t := range tags {
			r.TagIDs = append(r.TagIDs, t.ID)
		}
	}
}

// WithIngredients attaches ingredients to a fixture recipe.
func WithIngredients(ings ...models.Ingredient) RecipeOption {
	return func(r *models.Recipe) {
		for _, i := range ings {
			r.IngredientIDs = append(r.IngredientIDs, i.ID)
		}
	}
}

// WithImage sets the stored image key.
func WithImage(key string) RecipeOption {
	return func(r *models.Recipe) { r.Image = key }
}

// CreateRecipe creates a recipe owned by owner with sample defaults:
// 22 minutes, price 5.25.
func (f *Fixtures) CreateRecipe(ctx context.Context, owner primitive.ObjectID, title string, opts ...RecipeOption) models.Recipe {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.Recipe{
		ID:            f.nextID(ctx, sequencestore.Recipes),
		UserID:        owner,
		Title:         title,
		Description:   "Sample description",
		TimeMinutes:   22,
		Price:         models.MustParsePrice("5.25"),
		Link:          "http://example.com/recipe.pdf",
		TagIDs:        []int64{},
		IngredientIDs: []int64{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if _, err := f.db.Collection("recipes").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test recipe: %v", err)
	}
	return r
}
