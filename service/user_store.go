package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// UserStore persists users and checks credentials.
type UserStore struct {
	col *mongo.Collection
}

func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{col: db.Collection(colUsers)}
}

// Register creates a user with a hashed password. The first registered user
// becomes admin, everyone after that a regular user.
func (s *UserStore) Register(ctx context.Context, user *model.User, password string) (*model.User, error) {
	if user.Name == "" || user.Email == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	count, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	role := model.RoleUser
	if count == 0 {
		role = model.RoleAdmin
	}

	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.Email = strings.ToLower(user.Email)
	user.Password = string(hash)
	user.Role = role
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	return user, nil
}

// Authenticate verifies credentials and returns the matching user.
// The same error is reported for an unknown email and a wrong password.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrNotFound
	}
	return &user, nil
}

// Get fetches a user by id.
func (s *UserStore) Get(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user model.User
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

// UpdateProfile updates name, lastname and avatar.
func (s *UserStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, lastName, avatar string) (*model.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if name != "" {
		set["name"] = name
	}
	if lastName != "" {
		set["lastName"] = lastName
	}
	if avatar != "" {
		set["avatar"] = avatar
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user model.User
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}
