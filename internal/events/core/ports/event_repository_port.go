package ports

import (
	"context"

	"menu-analytics-service/internal/events/core/domain"
)

type EventRepositoryPort interface {
	// InsertEvent appends e to the log and fills in the store-assigned
	// ID and Timestamp. Every call produces a new row.
	InsertEvent(ctx context.Context, e *domain.Event) error
}
