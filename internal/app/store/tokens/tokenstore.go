// Package tokenstore persists the opaque API tokens issued at login.
// Each user has at most one token; it does not expire.
package tokenstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/gorilla/securecookie"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// keyBytes is the entropy per token; the key is its hex form (40 chars).
const keyBytes = 20

var errKeyGen = errors.New("token key generation failed")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tokens")}
}

// NewKey returns a fresh random token key.
func NewKey() (string, error) {
	b := securecookie.GenerateRandomKey(keyBytes)
	if b == nil {
		return "", errKeyGen
	}
	return hex.EncodeToString(b), nil
}

// GetOrCreate returns the user's token, issuing one if none exists.
// Concurrent first logins race on the unique user_id index; the loser
// re-reads the winner's token.
func (s *Store) GetOrCreate(ctx context.Context, userID primitive.ObjectID) (models.Token, error) {
	if t, err := s.ForUser(ctx, userID); err == nil {
		return t, nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.Token{}, err
	}

	key, err := NewKey()
	if err != nil {
		return models.Token{}, err
	}
	t := models.Token{Key: key, UserID: userID, CreatedAt: time.Now().UTC()}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return s.ForUser(ctx, userID)
		}
		return models.Token{}, fmt.Errorf("insert token: %w", err)
	}
	return t, nil
}

// ForUser returns the user's token or mongo.ErrNoDocuments.
func (s *Store) ForUser(ctx context.Context, userID primitive.ObjectID) (models.Token, error) {
	var t models.Token
	err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&t)
	return t, err
}

// ResolveToken maps key to its owner. ok is false for unknown keys.
func (s *Store) ResolveToken(ctx context.Context, key string) (primitive.ObjectID, bool, error) {
	if key == "" {
		return primitive.NilObjectID, false, nil
	}
	var t models.Token
	err := s.c.FindOne(ctx, bson.M{"_id": key}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return primitive.NilObjectID, false, nil
	}
	if err != nil {
		return primitive.NilObjectID, false, err
	}
	return t.UserID, true, nil
}

// DeleteForUser revokes the user's token, if any.
func (s *Store) DeleteForUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
