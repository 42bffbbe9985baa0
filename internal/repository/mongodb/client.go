// Package mongodb implements the storage contracts against a document
// database. Compared with the relational backend it offers per-document
// atomicity only: there are no cross-document transactions here, and
// uniqueness is enforced by an existence-check-then-write sequence, which is
// a documented weaker guarantee.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. knowledge_base/logs/ranking_settings match what the
// mobile client's sync layer reads.
const (
	colTerms    = "knowledge_base"
	colUsage    = "ai_usage"
	colQuotas   = "learning_quotas"
	colActivity = "logs"
	colRanking  = "ranking_settings"
)

// Connect dials the server, verifies the connection and returns a handle to
// the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, func(), error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	disconnect := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(shutdownCtx)
	}

	return client.Database(database), disconnect, nil
}

// EnsureIndexes creates the lookup indexes the repositories query by. The
// term index is intentionally not unique: duplicate suppression is handled by
// the check-then-write sequence in the term repository.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string]mongo.IndexModel{
		colTerms:    {Keys: bson.D{{Key: "term", Value: 1}, {Key: "category", Value: 1}}},
		colUsage:    {Keys: bson.D{{Key: "userId", Value: 1}, {Key: "periodKey", Value: 1}}},
		colQuotas:   {Keys: bson.D{{Key: "userId", Value: 1}, {Key: "dayKey", Value: 1}}},
		colActivity: {Keys: bson.D{{Key: "term", Value: 1}}},
	}
	for name, model := range indexes {
		if _, err := db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", name, err)
		}
	}
	return nil
}
