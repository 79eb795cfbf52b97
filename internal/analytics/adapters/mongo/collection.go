package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventCollection is the read side of *mongo.Collection used by the queries.
type EventCollection interface {
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	Aggregate(ctx context.Context, pipeline any, opts ...*options.AggregateOptions) (*mongo.Cursor, error)
}
