package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkLog is a free-text work journal entry (darbai) shown on the dashboard.
type WorkLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Data      string             `bson:"data" json:"data"`
	Username  string             `bson:"username,omitempty" json:"username,omitempty"`
	Done      bool               `bson:"done" json:"done"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
