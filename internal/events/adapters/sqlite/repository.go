package sqlite

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"menu-analytics-service/internal/events/core/domain"
	"menu-analytics-service/internal/events/core/ports"
	"menu-analytics-service/internal/platform/storage/sqlitedb"
	"menu-analytics-service/internal/platform/storage/sqlstore"
)

type DB = sqlstore.Execer

type EventRepository struct {
	db  DB
	now func() time.Time

	// mu keeps id order and ts order identical: the clock is read and the
	// row inserted without another writer in between.
	mu sync.Mutex
}

type Option func(*EventRepository)

// WithClock overrides the store clock used to stamp new events.
func WithClock(now func() time.Time) Option {
	return func(r *EventRepository) { r.now = now }
}

func NewEventRepository(db DB, opts ...Option) *EventRepository {
	r := &EventRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

const insertEventSQL = `
INSERT INTO events (
    tenant_slug,
    kind,
    item_index,
    ts
) VALUES (?, ?, ?, ?);
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) error {
	var itemIndex sql.NullInt64
	if e.ItemIndex != nil {
		itemIndex = sql.NullInt64{Int64: int64(*e.ItemIndex), Valid: true}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ts := r.now().UTC().Truncate(time.Millisecond)

	res, err := r.db.ExecContext(ctx, insertEventSQL,
		e.TenantSlug,
		string(e.Kind),
		itemIndex,
		sqlitedb.ToMillis(ts),
	)
	if err != nil {
		return err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	e.ID = id
	e.Timestamp = ts
	return nil
}
