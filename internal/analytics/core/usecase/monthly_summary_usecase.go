package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/ports"

	"golang.org/x/sync/errgroup"
)

const (
	minYear = 1
	maxYear = 9999
)

type GetMonthlySummaryInput struct {
	TenantSlug string
	Year       *int // defaults to the current UTC year
	Month      *int // defaults to the current UTC month, 1-12
}

type GetMonthlySummaryUseCase struct {
	reader ports.AnalyticsReaderPort
	opts   options
}

func NewGetMonthlySummaryUseCase(reader ports.AnalyticsReaderPort, opts ...Option) *GetMonthlySummaryUseCase {
	return &GetMonthlySummaryUseCase{reader: reader, opts: buildOptions(opts)}
}

// Execute counts scans and clicks of the calendar month and ranks the
// clicked items. The three reads run concurrently; none of them writes.
func (uc *GetMonthlySummaryUseCase) Execute(ctx context.Context, in GetMonthlySummaryInput) (*domain.MonthlySummary, error) {
	slug := strings.TrimSpace(in.TenantSlug)
	if slug == "" {
		return nil, fmt.Errorf("%w: tenant slug is required", ErrInvalidQuery)
	}

	now := uc.opts.now().UTC()
	year, month := now.Year(), int(now.Month())
	if in.Year != nil {
		year = *in.Year
	}
	if in.Month != nil {
		month = *in.Month
	}
	if year < minYear || year > maxYear {
		return nil, fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidWindow, year, minYear, maxYear)
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidWindow, month)
	}

	window := domain.MonthWindow(year, time.Month(month))
	started := time.Now()

	summary := &domain.MonthlySummary{
		TenantSlug: slug,
		Year:       year,
		Month:      time.Month(month),
		From:       window.From,
		To:         window.To,
	}

	var groups []domain.ItemClicks
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.reader.CountEvents(gctx, ports.EventFilter{
			TenantSlug: slug, Kind: domain.KindScan, From: window.From, To: window.To,
		})
		summary.Scans = n
		return err
	})
	g.Go(func() error {
		n, err := uc.reader.CountEvents(gctx, ports.EventFilter{
			TenantSlug: slug, Kind: domain.KindClick, From: window.From, To: window.To,
		})
		summary.Clicks = n
		return err
	})
	g.Go(func() error {
		var err error
		groups, err = uc.reader.CountClicksByItem(gctx, ports.EventFilter{
			TenantSlug: slug, Kind: domain.KindClick, From: window.From, To: window.To,
		})
		return err
	})

	err := g.Wait()
	uc.opts.obs.ObserveQuery("monthly_summary", time.Since(started), err)
	if err != nil {
		return nil, storageError(err)
	}

	summary.TopItems = domain.RankItems(groups, domain.MonthlyTopItemsLimit)
	return summary, nil
}
