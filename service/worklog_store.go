package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WorkLogStore persists the dashboard work journal (darbai).
type WorkLogStore struct {
	col *mongo.Collection
}

func NewWorkLogStore(db *mongo.Database) *WorkLogStore {
	return &WorkLogStore{col: db.Collection(colWorkLogs)}
}

// Create appends a journal entry.
func (s *WorkLogStore) Create(ctx context.Context, entry *model.WorkLog) (*model.WorkLog, error) {
	if entry.Data == "" {
		return nil, fmt.Errorf("%w: data is required", ErrValidation)
	}
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()

	if _, err := s.col.InsertOne(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert worklog: %w", err)
	}
	return entry, nil
}

// List returns all entries, newest first.
func (s *WorkLogStore) List(ctx context.Context) ([]model.WorkLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list worklogs: %w", err)
	}
	defer cursor.Close(ctx)

	entries := []model.WorkLog{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode worklogs: %w", err)
	}
	return entries, nil
}

// ToggleDone flips the done flag and returns the updated entry.
func (s *WorkLogStore) ToggleDone(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error) {
	entry, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.WorkLog
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"done": !entry.Done}},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle worklog: %w", err)
	}
	return &updated, nil
}

// Update rewrites the entry text and author.
func (s *WorkLogStore) Update(ctx context.Context, id primitive.ObjectID, data, username string) (*model.WorkLog, error) {
	if data == "" {
		return nil, fmt.Errorf("%w: data is required", ErrValidation)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated model.WorkLog
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"data": data, "username": username}},
		opts,
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update worklog: %w", err)
	}
	return &updated, nil
}

// Delete removes the entry and returns it.
func (s *WorkLogStore) Delete(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error) {
	var entry model.WorkLog
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete worklog: %w", err)
	}
	return &entry, nil
}

func (s *WorkLogStore) get(ctx context.Context, id primitive.ObjectID) (*model.WorkLog, error) {
	var entry model.WorkLog
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch worklog: %w", err)
	}
	return &entry, nil
}
