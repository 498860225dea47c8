package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deividastamosaitis/objektai/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReminderStore persists scheduled e-mail reminders.
type ReminderStore struct {
	col *mongo.Collection
}

func NewReminderStore(db *mongo.Database) *ReminderStore {
	return &ReminderStore{col: db.Collection(colReminders)}
}

// Create schedules a reminder.
func (s *ReminderStore) Create(ctx context.Context, r *model.Reminder) (*model.Reminder, error) {
	if r.Email == "" || r.Subject == "" || r.Message == "" {
		return nil, fmt.Errorf("%w: email, subject and message are required", ErrValidation)
	}
	if r.SendAt.IsZero() {
		return nil, fmt.Errorf("%w: sendAt is required", ErrValidation)
	}

	r.ID = primitive.NewObjectID()
	if _, err := s.col.InsertOne(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to insert reminder: %w", err)
	}
	return r, nil
}

// List returns all scheduled reminders.
func (s *ReminderStore) List(ctx context.Context) ([]model.Reminder, error) {
	cursor, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer cursor.Close(ctx)

	reminders := []model.Reminder{}
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	return reminders, nil
}

// Due returns reminders whose send time has passed.
func (s *ReminderStore) Due(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	cursor, err := s.col.Find(ctx, bson.M{"sendAt": bson.M{"$lte": now}})
	if err != nil {
		return nil, fmt.Errorf("failed to find due reminders: %w", err)
	}
	defer cursor.Close(ctx)

	reminders := []model.Reminder{}
	if err := cursor.All(ctx, &reminders); err != nil {
		return nil, fmt.Errorf("failed to decode due reminders: %w", err)
	}
	return reminders, nil
}

// Delete removes a reminder.
func (s *ReminderStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}
