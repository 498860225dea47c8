package service

import (
	"context"
	"fmt"
	"time"

	"github.com/deividastamosaitis/objektai/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	colJobs      = "jobs"
	colContracts = "contracts"
	colUsers     = "users"
	colReminders = "reminders"
	colWorkLogs  = "darbai"
	colCounters  = "counters"
)

// ConnectMongo connects to the configured MongoDB instance and verifies the
// connection with a ping.
func ConnectMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client.Database(cfg.Database), nil
}

// EnsureIndexes creates the indexes the application relies on. Safe to call
// on every startup; index creation is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// Token lookup must be fast and tokens must never collide. The index is
	// sparse because signed contracts have the field unset.
	_, err := db.Collection(colContracts).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "signToken", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		},
		{
			Keys: bson.D{{Key: "jobId", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create contract indexes: %w", err)
	}

	_, err = db.Collection(colUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	_, err = db.Collection(colReminders).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "sendAt", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reminder indexes: %w", err)
	}

	return nil
}
