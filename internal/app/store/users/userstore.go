package userstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/valera-kram/recipe-app-api/internal/app/system/authutil"
	"github.com/valera-kram/recipe-app-api/internal/app/system/normalize"
	"github.com/valera-kram/recipe-app-api/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("user with this email already exists.")
	// ErrEmailRequired is returned when the email is blank. Nothing is written.
	ErrEmailRequired = errors.New("users must have an email address")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByEmail looks up a user by normalized email. Returns ErrNotFound if
// no user matches.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email": normalize.Email(email)}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an active, non-staff user. The email domain is
// lowercased and the password is stored as a bcrypt hash.
func (s *Store) CreateUser(ctx context.Context, email, password, name string) (models.User, error) {
	return s.create(ctx, email, password, name, false)
}

// CreateSuperuser is CreateUser with is_staff and is_superuser set.
func (s *Store) CreateSuperuser(ctx context.Context, email, password string) (models.User, error) {
	return s.create(ctx, email, password, "", true)
}

func (s *Store) create(ctx context.Context, email, password, name string, super bool) (models.User, error) {
	email = normalize.Email(email)
	if email == "" {
		return models.User{}, ErrEmailRequired
	}
	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		Name:         normalize.Name(name),
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      super,
		IsSuperuser:  super,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// EnsureSuperuser creates a superuser for email, or promotes the existing
// account and resets its password. created reports which happened.
func (s *Store) EnsureSuperuser(ctx context.Context, email, password string) (u models.User, created bool, err error) {
	existing, err := s.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		u, err = s.CreateSuperuser(ctx, email, password)
		if errors.Is(err, ErrDuplicateEmail) {
			// Lost a race with another instance; promote instead.
			existing, err = s.GetByEmail(ctx, email)
			if err != nil {
				return models.User{}, false, err
			}
			break
		}
		return u, err == nil, err
	case err != nil:
		return models.User{}, false, err
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		return models.User{}, false, err
	}
	set := bson.M{
		"password_hash": hash,
		"is_active":     true,
		"is_staff":      true,
		"is_superuser":  true,
		"updated_at":    time.Now().UTC(),
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": set}, opts).Decode(&u); err != nil {
		return models.User{}, false, fmt.Errorf("promote superuser: %w", err)
	}
	return u, false, nil
}

// ProfileUpdate holds the fields a user may change on their own account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Email == nil && p.Name == nil && p.Password == nil
}

// UpdateProfile applies upd and returns the stored user.
// Returns ErrDuplicateEmail if the new email belongs to another user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	if upd.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Email != nil {
		email := normalize.Email(*upd.Email)
		if email == "" {
			return nil, ErrEmailRequired
		}
		set["email"] = email
	}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Password != nil {
		hash, err := authutil.HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		set["password_hash"] = hash
	}

	var u models.User
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return nil, ErrDuplicateEmail
		}
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// SetActive enables or disables login for a user. Inactive users are
// refused tokens and their existing tokens stop resolving.
func (s *Store) SetActive(ctx context.Context, id primitive.ObjectID, active bool) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EmailExistsForOther checks if an email already exists for a user other than the given ID.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"email": normalize.Email(email),
		"_id":   bson.M{"$ne": excludeID},
	}).Err()
	if err == nil {
		return true, nil // found another user with this email
	}
	if err == mongo.ErrNoDocuments {
		return false, nil // no duplicate
	}
	return false, err // actual error
}
