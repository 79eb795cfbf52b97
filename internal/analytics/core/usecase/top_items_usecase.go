package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/ports"
)

const (
	DefaultSinceDays = 30
	// MaxSinceDays keeps days*24h inside time.Duration.
	MaxSinceDays = 36500
)

type GetTopItemsInput struct {
	TenantSlug string
	SinceDays  *int // defaults to DefaultSinceDays
}

type GetTopItemsUseCase struct {
	reader ports.AnalyticsReaderPort
	opts   options
}

func NewGetTopItemsUseCase(reader ports.AnalyticsReaderPort, opts ...Option) *GetTopItemsUseCase {
	return &GetTopItemsUseCase{reader: reader, opts: buildOptions(opts)}
}

// Execute ranks clicked items over the trailing window ending now. Two
// calls a moment apart may disagree about events on the boundary.
func (uc *GetTopItemsUseCase) Execute(ctx context.Context, in GetTopItemsInput) (*domain.TopItemsReport, error) {
	slug := strings.TrimSpace(in.TenantSlug)
	if slug == "" {
		return nil, fmt.Errorf("%w: tenant slug is required", ErrInvalidQuery)
	}

	days := DefaultSinceDays
	if in.SinceDays != nil {
		days = *in.SinceDays
	}
	if days <= 0 || days > MaxSinceDays {
		return nil, fmt.Errorf("%w: since_days must be in 1-%d, got %d", ErrInvalidWindow, MaxSinceDays, days)
	}

	window := domain.TrailingWindow(uc.opts.now(), days)
	started := time.Now()

	groups, err := uc.reader.CountClicksByItem(ctx, ports.EventFilter{
		TenantSlug: slug,
		Kind:       domain.KindClick,
		From:       window.From,
		To:         window.To,
	})
	uc.opts.obs.ObserveQuery("top_items", time.Since(started), err)
	if err != nil {
		return nil, storageError(err)
	}

	return &domain.TopItemsReport{
		TenantSlug: slug,
		SinceDays:  days,
		From:       window.From,
		To:         window.To,
		Items:      domain.RankItems(groups, domain.TrailingTopItemsLimit),
	}, nil
}
