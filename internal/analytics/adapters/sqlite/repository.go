package sqlite

import (
	"context"
	"database/sql"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/ports"
	"menu-analytics-service/internal/platform/storage/sqlitedb"
	"menu-analytics-service/internal/platform/storage/sqlstore"
)

type (
	RowScanner = sqlstore.Rows
	DB         = sqlstore.Querier
)

type AnalyticsRepository struct {
	db DB
}

func NewAnalyticsRepository(db DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ ports.AnalyticsReaderPort = (*AnalyticsRepository)(nil)

const countEventsSQL = `
SELECT
    COUNT(*) AS total_count
FROM events
WHERE tenant_slug = ?
  AND kind = ?
  AND ts >= ?
  AND ts < ?`

const clicksByItemSQL = `
SELECT
    item_index,
    COUNT(*) AS click_count
FROM events
WHERE tenant_slug = ?
  AND kind = 'click'
  AND ts >= ?
  AND ts < ?
GROUP BY item_index`

// boundMillis maps a window bound onto the stored millisecond column.
// Stored values are whole milliseconds, so rounding the bound up keeps
// both ts >= from and ts < to exact.
func boundMillis(t time.Time) int64 {
	ms := sqlitedb.ToMillis(t)
	if sqlitedb.FromMillis(ms).Before(t) {
		ms++
	}
	return ms
}

func (r *AnalyticsRepository) CountEvents(ctx context.Context, f ports.EventFilter) (int64, error) {
	rows, err := r.db.QueryContext(ctx, countEventsSQL,
		f.TenantSlug,
		string(f.Kind),
		boundMillis(f.From),
		boundMillis(f.To),
	)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var total int64
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}

	if err := rows.Err(); err != nil {
		return 0, err
	}

	return total, nil
}

func (r *AnalyticsRepository) CountClicksByItem(ctx context.Context, f ports.EventFilter) ([]domain.ItemClicks, error) {
	rows, err := r.db.QueryContext(ctx, clicksByItemSQL,
		f.TenantSlug,
		boundMillis(f.From),
		boundMillis(f.To),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []domain.ItemClicks
	for rows.Next() {
		var (
			index  sql.NullInt64
			clicks int64
		)
		if err := rows.Scan(&index, &clicks); err != nil {
			return nil, err
		}

		g := domain.ItemClicks{Clicks: clicks}
		if index.Valid {
			v := int(index.Int64)
			g.ItemIndex = &v
		}
		groups = append(groups, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return groups, nil
}
