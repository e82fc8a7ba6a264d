package indexes_test

import (
	"testing"

	"github.com/valera-kram/recipe-app-api/internal/app/system/indexes"
	"github.com/valera-kram/recipe-app-api/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func indexNames(t *testing.T, db *mongo.Database, coll string) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := db.Collection(coll).Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			continue
		}
		if name, ok := idx["name"].(string); ok {
			names[name] = true
		}
	}
	return names
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"users":        {"uniq_users_email"},
		"tokens":       {"uniq_tokens_user"},
		"tags":         {"uniq_tags_user_name"},
		"ingredients":  {"uniq_ingredients_user_name"},
		"recipes":      {"idx_recipes_user__id", "idx_recipes_user_tags", "idx_recipes_user_ingredients"},
		"audit_events": {"idx_audit_created", "idx_audit_user_created"},
	}
	for coll, want := range expected {
		names := indexNames(t, db, coll)
		for _, name := range want {
			if !names[name] {
				t.Errorf("expected index %q on %s, have %v", name, coll, names)
			}
		}
	}
}

func TestEnsureAll_RenamesMismatchedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("legacy_email"),
	})
	if err != nil {
		t.Fatalf("create legacy index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	names := indexNames(t, db, "users")
	if names["legacy_email"] || !names["uniq_users_email"] {
		t.Errorf("expected legacy index replaced, have %v", names)
	}
}

func TestEnsureAll_LabelNameUniquePerOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	owner := primitive.NewObjectID()
	tags := db.Collection("tags")
	if _, err := tags.InsertOne(ctx, bson.M{"_id": int64(1), "user_id": owner, "name": "Vegan"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := tags.InsertOne(ctx, bson.M{"_id": int64(2), "user_id": owner, "name": "Vegan"}); !mongo.IsDuplicateKeyError(err) {
		t.Errorf("expected duplicate key error, got %v", err)
	}
	if _, err := tags.InsertOne(ctx, bson.M{"_id": int64(3), "user_id": primitive.NewObjectID(), "name": "Vegan"}); err != nil {
		t.Errorf("other owner should be allowed the same name: %v", err)
	}
}
