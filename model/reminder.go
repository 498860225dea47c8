package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reminder is a scheduled one-shot e-mail notification. The sweeper deletes
// it after dispatch; a failed send is logged and dropped, never retried.
type Reminder struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email   string             `bson:"email" json:"email"`
	Subject string             `bson:"subject" json:"subject"`
	Message string             `bson:"message" json:"message"`
	SendAt  time.Time          `bson:"sendAt" json:"sendAt"`
}
