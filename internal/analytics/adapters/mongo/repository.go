package mongo

import (
	"context"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/ports"

	"go.mongodb.org/mongo-driver/bson"
)

type AnalyticsRepository struct {
	events EventCollection
}

func NewAnalyticsRepository(events EventCollection) *AnalyticsRepository {
	return &AnalyticsRepository{events: events}
}

var _ ports.AnalyticsReaderPort = (*AnalyticsRepository)(nil)

type clickGroup struct {
	ItemIndex *int64 `bson:"_id"`
	Clicks    int64  `bson:"clicks"`
}

func windowFilter(slug string, kind domain.EventKind, f ports.EventFilter) bson.D {
	return bson.D{
		{Key: "tenant_slug", Value: slug},
		{Key: "kind", Value: string(kind)},
		{Key: "ts", Value: bson.D{
			{Key: "$gte", Value: boundMillis(f.From)},
			{Key: "$lt", Value: boundMillis(f.To)},
		}},
	}
}

// boundMillis rounds a window bound up to the next whole millisecond.
// BSON datetimes truncate to milliseconds, and every stored ts is a whole
// millisecond, so rounding up keeps [From, To) exact.
func boundMillis(t time.Time) time.Time {
	t = t.UTC()
	ms := t.Truncate(time.Millisecond)
	if ms.Before(t) {
		ms = ms.Add(time.Millisecond)
	}
	return ms
}

// clicksByItemPipeline groups click events on item_index. Generic clicks
// store a null index and land in the _id: null group.
func clicksByItemPipeline(f ports.EventFilter) bson.A {
	return bson.A{
		bson.D{{Key: "$match", Value: windowFilter(f.TenantSlug, domain.KindClick, f)}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$item_index"},
			{Key: "clicks", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}

func (r *AnalyticsRepository) CountEvents(ctx context.Context, f ports.EventFilter) (int64, error) {
	return r.events.CountDocuments(ctx, windowFilter(f.TenantSlug, f.Kind, f))
}

func (r *AnalyticsRepository) CountClicksByItem(ctx context.Context, f ports.EventFilter) ([]domain.ItemClicks, error) {
	cur, err := r.events.Aggregate(ctx, clicksByItemPipeline(f))
	if err != nil {
		return nil, err
	}

	var docs []clickGroup
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	groups := make([]domain.ItemClicks, 0, len(docs))
	for _, d := range docs {
		g := domain.ItemClicks{Clicks: d.Clicks}
		if d.ItemIndex != nil {
			v := int(*d.ItemIndex)
			g.ItemIndex = &v
		}
		groups = append(groups, g)
	}
	return groups, nil
}
