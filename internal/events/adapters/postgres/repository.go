package postgres

import (
	"context"
	"database/sql"
	"time"

	"menu-analytics-service/internal/events/core/domain"
	"menu-analytics-service/internal/events/core/ports"
	"menu-analytics-service/internal/platform/storage/sqlstore"
)

type (
	RowScanner = sqlstore.Row
	DB         = sqlstore.RowQuerier
)

type EventRepository struct {
	db DB
}

func NewEventRepository(db DB) *EventRepository {
	return &EventRepository{db: db}
}

var _ ports.EventRepositoryPort = (*EventRepository)(nil)

// id and ts come from the database: identity column + clock_timestamp().
const insertEventSQL = `
INSERT INTO events (
    tenant_slug,
    kind,
    item_index
) VALUES (
    $1, $2, $3
)
RETURNING id, ts;
`

func (r *EventRepository) InsertEvent(ctx context.Context, e *domain.Event) error {
	var itemIndex sql.NullInt64
	if e.ItemIndex != nil {
		itemIndex = sql.NullInt64{Int64: int64(*e.ItemIndex), Valid: true}
	}

	var (
		id int64
		ts time.Time
	)
	row := r.db.QueryRowContext(ctx, insertEventSQL,
		e.TenantSlug,
		string(e.Kind),
		itemIndex,
	)
	if err := row.Scan(&id, &ts); err != nil {
		return err
	}

	e.ID = id
	e.Timestamp = ts.UTC()
	return nil
}
