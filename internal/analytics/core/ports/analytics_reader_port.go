package ports

import (
	"context"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
)

// EventFilter selects events of one kind for one tenant in [From, To).
type EventFilter struct {
	TenantSlug string
	Kind       domain.EventKind
	From       time.Time
	To         time.Time
}

type AnalyticsReaderPort interface {
	CountEvents(ctx context.Context, f EventFilter) (int64, error)
	// CountClicksByItem returns one group per distinct item index (the
	// generic nil index included) in no particular order. Kind is ignored.
	CountClicksByItem(ctx context.Context, f EventFilter) ([]domain.ItemClicks, error)
}
