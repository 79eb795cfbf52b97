// Package mongodb connects to the MongoDB event log and creates its indexes.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventsCollection   = "events"
	CountersCollection = "counters"

	eventsIndexName = "idx_events_tenant_kind_ts"
)

type Options struct {
	URI      string
	Database string
}

// Connect dials MongoDB, checks the connection and ensures indexes on the
// events collection. Callers own the returned client and must Disconnect it.
func Connect(ctx context.Context, opts Options) (*mongo.Client, *mongo.Database, error) {
	if strings.TrimSpace(opts.URI) == "" {
		return nil, nil, errors.New("mongo uri is required")
	}
	if strings.TrimSpace(opts.Database) == "" {
		return nil, nil, errors.New("mongo database is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(opts.Database)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

// EnsureIndexes is idempotent: creating an identical index is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(EventsCollection).Indexes().CreateOne(ctx, EventsIndex())
	if err != nil {
		return fmt.Errorf("ensure mongo indexes: %w", err)
	}
	return nil
}

func EventsIndex() mongo.IndexModel {
	return mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenant_slug", Value: 1},
			{Key: "kind", Value: 1},
			{Key: "ts", Value: 1},
		},
		Options: options.Index().SetName(eventsIndexName),
	}
}
