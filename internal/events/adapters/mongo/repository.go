package mongo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"menu-analytics-service/internal/events/core/domain"
	"menu-analytics-service/internal/events/core/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const eventsSequence = "events"

type eventDocument struct {
	ID         int64     `bson:"_id"`
	TenantSlug string    `bson:"tenant_slug"`
	Kind       string    `bson:"kind"`
	ItemIndex  *int64    `bson:"item_index"`
	Timestamp  time.Time `bson:"ts"`
}

type counterDocument struct {
	Seq int64 `bson:"seq"`
}

type EventRepository struct {
	events   EventCollection
	counters CounterCollection
	now      func() time.Time
	mu       sync.Mutex
}

func NewEventRepository(events EventCollection, counters CounterCollection) *EventRepository {
	return &EventRepository{events: events, counters: counters, now: time.Now}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}

	doc := eventDocument{
		ID:         id,
		TenantSlug: e.TenantSlug,
		Kind:       string(e.Kind),
		Timestamp:  r.now().UTC().Truncate(time.Millisecond),
	}
	if e.ItemIndex != nil {
		v := int64(*e.ItemIndex)
		doc.ItemIndex = &v
	}

	if _, err := r.events.InsertOne(ctx, doc); err != nil {
		return err
	}

	e.ID = doc.ID
	e.Timestamp = doc.Timestamp
	return nil
}

// nextID atomically bumps the events sequence. Ids are never handed out
// twice, even when the following insert fails.
func (r *EventRepository) nextID(ctx context.Context) (int64, error) {
	res := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": eventsSequence},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)

	var c counterDocument
	if err := res.Decode(&c); err != nil {
		return 0, fmt.Errorf("next event id: %w", err)
	}
	return c.Seq, nil
}
