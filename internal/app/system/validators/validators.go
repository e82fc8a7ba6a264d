// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates the catalog collections (if missing) and attaches
// JSON-Schema validators. Deployments that do not support collMod
// validators are logged and skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		// Fall through: CreateCollection tolerates an existing namespace.
		zap.L().Warn("listCollections failed", zap.Error(err))
	}
	have := make(map[string]bool, len(existing))
	for _, n := range existing {
		have[n] = true
	}

	var problems []string
	for _, c := range catalog() {
		if !have[c.name] {
			if err := createCollection(ctx, db, c.name); err != nil {
				problems = append(problems, c.name+": "+err.Error())
				continue
			}
		}
		if c.schema == nil {
			continue
		}
		if err := setValidator(ctx, db, c.name, c.schema); err != nil {
			if unsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", c.name))
				continue
			}
			problems = append(problems, c.name+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type collectionSpec struct {
	name   string
	schema bson.M
}

// catalog lists every collection the API writes. counters and
// audit_events carry no validator but are still created up front so that
// transactions never have to create them implicitly.
func catalog() []collectionSpec {
	return []collectionSpec{
		{"users", usersSchema()},
		{"tokens", tokensSchema()},
		{"recipes", recipesSchema()},
		{"tags", labelSchema()},
		{"ingredients", labelSchema()},
		{"counters", nil},
		{"audit_events", nil},
	}
}

func createCollection(ctx context.Context, db *mongo.Database, name string) error {
	err := db.CreateCollection(ctx, name)
	switch {
	case err == nil:
		zap.L().Info("created collection", zap.String("collection", name))
		return nil
	case commandFailed(err, []int32{48}, "already exists", "namespace exists"):
		return nil
	default:
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	if err := db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}
	zap.L().Debug("validator ensured", zap.String("collection", name))
	return nil
}

// unsupported matches servers without collMod validators: NoSuchCommand
// (59) and CommandNotSupported (115).
func unsupported(err error) bool {
	return commandFailed(err, []int32{59, 115}, "no such command", "not implemented", "not supported")
}

// commandFailed reports whether err is a command error with one of codes,
// or whose message contains one of phrases.
func commandFailed(err error, codes []int32, phrases ...string) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		for _, c := range codes {
			if ce.Code == c {
				return true
			}
		}
	}
	msg := strings.ToLower(err.Error())
	for _, p := range phrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "maxLength": 255, "pattern": ".*\\S.*"}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"email", "password_hash", "is_active", "is_staff", "is_superuser"},
			"properties": bson.M{
				"email":         nonBlank,
				"name":          bson.M{"bsonType": "string", "maxLength": 255},
				"password_hash": bson.M{"bsonType": "string", "minLength": 1},
				"is_active":     bson.M{"bsonType": "bool"},
				"is_staff":      bson.M{"bsonType": "bool"},
				"is_superuser":  bson.M{"bsonType": "bool"},
			},
		},
	}
}

func tokensSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "user_id"},
			"properties": bson.M{
				"_id":     bson.M{"bsonType": "string", "minLength": 1},
				"user_id": bson.M{"bsonType": "objectId"},
			},
		},
	}
}

func recipesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "user_id", "title", "time_minutes", "price"},
			"properties": bson.M{
				"_id":            bson.M{"bsonType": bson.A{"int", "long"}},
				"user_id":        bson.M{"bsonType": "objectId"},
				"title":          nonBlank,
				"description":    bson.M{"bsonType": "string"},
				"time_minutes":   bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
				"price":          bson.M{"bsonType": "decimal"},
				"link":           bson.M{"bsonType": "string", "maxLength": 255},
				"image":          bson.M{"bsonType": "string"},
				"tag_ids":        bson.M{"bsonType": "array", "items": bson.M{"bsonType": bson.A{"int", "long"}}},
				"ingredient_ids": bson.M{"bsonType": "array", "items": bson.M{"bsonType": bson.A{"int", "long"}}},
			},
		},
	}
}

// labelSchema covers tags and ingredients.
func labelSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"_id", "user_id", "name"},
			"properties": bson.M{
				"_id":     bson.M{"bsonType": bson.A{"int", "long"}},
				"user_id": bson.M{"bsonType": "objectId"},
				"name":    nonBlank,
			},
		},
	}
}
