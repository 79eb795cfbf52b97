package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/ports"
	"menu-analytics-service/internal/analytics/core/usecase"
)

// fakeAnalyticsReader fakes AnalyticsReaderPort.
// Summary queries run concurrently, so calls are recorded under a mutex.
type fakeAnalyticsReader struct {
	CountFn  func(ctx context.Context, f ports.EventFilter) (int64, error)
	GroupsFn func(ctx context.Context, f ports.EventFilter) ([]domain.ItemClicks, error)

	mu      sync.Mutex
	filters []ports.EventFilter
}

func (f *fakeAnalyticsReader) record(flt ports.EventFilter) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filters = append(f.filters, flt)
}

func (f *fakeAnalyticsReader) CountEvents(ctx context.Context, flt ports.EventFilter) (int64, error) {
	f.record(flt)
	if f.CountFn != nil {
		return f.CountFn(ctx, flt)
	}
	return 0, nil
}

func (f *fakeAnalyticsReader) CountClicksByItem(ctx context.Context, flt ports.EventFilter) ([]domain.ItemClicks, error) {
	f.record(flt)
	if f.GroupsFn != nil {
		return f.GroupsFn(ctx, flt)
	}
	return nil, nil
}

type fakeQueryObserver struct {
	mu    sync.Mutex
	names []string
	errs  []error
}

func (o *fakeQueryObserver) ObserveQuery(name string, took time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.names = append(o.names, name)
	o.errs = append(o.errs, err)
}

func intPtr(v int) *int { return &v }

func fixedClock(t time.Time) usecase.Option {
	return usecase.WithClock(func() time.Time { return t })
}

// ------------------------------------------------------------
// SUCCESS
// ------------------------------------------------------------

func TestMonthlySummary_Success(t *testing.T) {
	reader := &fakeAnalyticsReader{
		CountFn: func(ctx context.Context, flt ports.EventFilter) (int64, error) {
			if flt.TenantSlug != "cafe" {
				t.Errorf("expected slug cafe, got %s", flt.TenantSlug)
			}
			switch flt.Kind {
			case domain.KindScan:
				return 120, nil
			case domain.KindClick:
				return 7, nil
			}
			t.Errorf("unexpected kind %s", flt.Kind)
			return 0, nil
		},
		GroupsFn: func(ctx context.Context, flt ports.EventFilter) ([]domain.ItemClicks, error) {
			return []domain.ItemClicks{
				{ItemIndex: nil, Clicks: 2},
				{ItemIndex: intPtr(3), Clicks: 5},
			}, nil
		},
	}
	obs := &fakeQueryObserver{}
	uc := usecase.NewGetMonthlySummaryUseCase(reader, usecase.WithObserver(obs))

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{
		TenantSlug: "cafe",
		Year:       intPtr(2025),
		Month:      intPtr(3),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Scans != 120 || res.Clicks != 7 {
		t.Fatalf("unexpected counts: scans=%d clicks=%d", res.Scans, res.Clicks)
	}
	if len(res.TopItems) != 2 || res.TopItems[0].ItemIndex == nil || *res.TopItems[0].ItemIndex != 3 {
		t.Fatalf("expected (3,5) ranked first, got %+v", res.TopItems)
	}
	if res.TopItems[1].ItemIndex != nil || res.TopItems[1].Clicks != 2 {
		t.Fatalf("expected (nil,2) ranked second, got %+v", res.TopItems[1])
	}
	if res.Year != 2025 || res.Month != time.March {
		t.Fatalf("unexpected period %d-%d", res.Year, res.Month)
	}

	wantFrom := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	if len(reader.filters) != 3 {
		t.Fatalf("expected 3 reads, got %d", len(reader.filters))
	}
	for _, flt := range reader.filters {
		if !flt.From.Equal(wantFrom) || !flt.To.Equal(wantTo) {
			t.Fatalf("expected window [%v, %v), got [%v, %v)", wantFrom, wantTo, flt.From, flt.To)
		}
	}
	if len(obs.names) != 1 || obs.names[0] != "monthly_summary" || obs.errs[0] != nil {
		t.Fatalf("unexpected observations: %v %v", obs.names, obs.errs)
	}
}

func TestMonthlySummary_DefaultsToCurrentMonth(t *testing.T) {
	reader := &fakeAnalyticsReader{}
	clock := time.Date(2026, 7, 19, 22, 0, 0, 0, time.FixedZone("PKT", 5*3600))
	uc := usecase.NewGetMonthlySummaryUseCase(reader, fixedClock(clock))

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{TenantSlug: "cafe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Year != 2026 || res.Month != time.July {
		t.Fatalf("expected 2026-07 from the UTC clock, got %d-%d", res.Year, res.Month)
	}
}

func TestMonthlySummary_DefaultUsesUTCDate(t *testing.T) {
	reader := &fakeAnalyticsReader{}
	// 02:00 on Aug 1st in UTC+5 is still July 31st in UTC.
	clock := time.Date(2026, 8, 1, 2, 0, 0, 0, time.FixedZone("PKT", 5*3600))
	uc := usecase.NewGetMonthlySummaryUseCase(reader, fixedClock(clock))

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{TenantSlug: "cafe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Month != time.July {
		t.Fatalf("expected July, got %s", res.Month)
	}
}

func TestMonthlySummary_DecemberRollover(t *testing.T) {
	reader := &fakeAnalyticsReader{}
	uc := usecase.NewGetMonthlySummaryUseCase(reader)

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{
		TenantSlug: "cafe", Year: intPtr(2024), Month: intPtr(12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC); !res.To.Equal(want) {
		t.Fatalf("expected window end %v, got %v", want, res.To)
	}
}

func TestMonthlySummary_EmptyMonth(t *testing.T) {
	uc := usecase.NewGetMonthlySummaryUseCase(&fakeAnalyticsReader{})

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{
		TenantSlug: "cafe", Year: intPtr(2020), Month: intPtr(1),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Scans != 0 || res.Clicks != 0 {
		t.Fatalf("expected zero counts, got %+v", res)
	}
	if res.TopItems == nil || len(res.TopItems) != 0 {
		t.Fatalf("expected empty non-nil top items, got %#v", res.TopItems)
	}
}

func TestMonthlySummary_CapsTopItems(t *testing.T) {
	reader := &fakeAnalyticsReader{
		GroupsFn: func(ctx context.Context, flt ports.EventFilter) ([]domain.ItemClicks, error) {
			var out []domain.ItemClicks
			for i := 0; i < 25; i++ {
				out = append(out, domain.ItemClicks{ItemIndex: intPtr(i), Clicks: int64(i + 1)})
			}
			return out, nil
		},
	}
	uc := usecase.NewGetMonthlySummaryUseCase(reader)

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{TenantSlug: "cafe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.TopItems) != domain.MonthlyTopItemsLimit {
		t.Fatalf("expected %d top items, got %d", domain.MonthlyTopItemsLimit, len(res.TopItems))
	}
	if *res.TopItems[0].ItemIndex != 24 {
		t.Fatalf("expected most clicked item first, got %d", *res.TopItems[0].ItemIndex)
	}
}

// ------------------------------------------------------------
// VALIDATION
// ------------------------------------------------------------

func TestMonthlySummary_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.GetMonthlySummaryInput
		want error
	}{
		{"empty slug", usecase.GetMonthlySummaryInput{TenantSlug: " "}, usecase.ErrInvalidQuery},
		{"month zero", usecase.GetMonthlySummaryInput{TenantSlug: "cafe", Month: intPtr(0)}, usecase.ErrInvalidWindow},
		{"month 13", usecase.GetMonthlySummaryInput{TenantSlug: "cafe", Month: intPtr(13)}, usecase.ErrInvalidWindow},
		{"year zero", usecase.GetMonthlySummaryInput{TenantSlug: "cafe", Year: intPtr(0)}, usecase.ErrInvalidWindow},
		{"year 10000", usecase.GetMonthlySummaryInput{TenantSlug: "cafe", Year: intPtr(10000)}, usecase.ErrInvalidWindow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reader := &fakeAnalyticsReader{}
			uc := usecase.NewGetMonthlySummaryUseCase(reader)

			res, err := uc.Execute(context.Background(), tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if res != nil {
				t.Fatalf("expected nil result")
			}
			if len(reader.filters) != 0 {
				t.Fatalf("reader must not be called on invalid input")
			}
		})
	}
}

// ------------------------------------------------------------
// STORAGE ERROR
// ------------------------------------------------------------

func TestMonthlySummary_StorageError(t *testing.T) {
	dbErr := errors.New("db failure")
	reader := &fakeAnalyticsReader{
		CountFn: func(ctx context.Context, flt ports.EventFilter) (int64, error) {
			if flt.Kind == domain.KindClick {
				return 0, dbErr
			}
			return 1, nil
		},
	}
	obs := &fakeQueryObserver{}
	uc := usecase.NewGetMonthlySummaryUseCase(reader, usecase.WithObserver(obs))

	res, err := uc.Execute(context.Background(), usecase.GetMonthlySummaryInput{TenantSlug: "cafe"})
	if !errors.Is(err, usecase.ErrStorageUnavailable) || !errors.Is(err, dbErr) {
		t.Fatalf("expected wrapped storage error, got %v", err)
	}
	if res != nil {
		t.Fatalf("expected nil result on error")
	}
	if len(obs.errs) != 1 || obs.errs[0] == nil {
		t.Fatalf("expected failed query to be observed, got %v", obs.errs)
	}
}
