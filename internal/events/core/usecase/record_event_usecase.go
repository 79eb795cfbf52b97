package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menu-analytics-service/internal/events/core/domain"
	"menu-analytics-service/internal/events/core/ports"

	"go.uber.org/zap"
)

var (
	ErrInvalidEvent       = errors.New("invalid event")
	ErrStorageUnavailable = errors.New("event storage unavailable")
)

const (
	resultRecorded = "recorded"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

// RecordObserver receives one observation per Execute call.
type RecordObserver interface {
	ObserveEventRecorded(kind, result string)
}

type nopObserver struct{}

func (nopObserver) ObserveEventRecorded(string, string) {}

type RecordEventUseCase struct {
	repo ports.EventRepositoryPort
	log  *zap.Logger
	obs  RecordObserver
}

func NewRecordEventUseCase(repo ports.EventRepositoryPort, log *zap.Logger, obs RecordObserver) *RecordEventUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &RecordEventUseCase{repo: repo, log: log, obs: obs}
}

type RecordEventInput struct {
	TenantSlug string
	Kind       domain.Kind
	ItemIndex  *int
}

// Execute validates the input and appends exactly one event. Storage
// failures are returned wrapped in ErrStorageUnavailable.
func (uc *RecordEventUseCase) Execute(ctx context.Context, in RecordEventInput) (*domain.Event, error) {
	if err := validateInput(in); err != nil {
		uc.obs.ObserveEventRecorded(string(in.Kind), resultRejected)
		return nil, err
	}

	e := &domain.Event{
		TenantSlug: strings.TrimSpace(in.TenantSlug),
		Kind:       in.Kind,
	}
	if in.ItemIndex != nil {
		idx := *in.ItemIndex
		e.ItemIndex = &idx
	}

	if err := uc.repo.InsertEvent(ctx, e); err != nil {
		uc.obs.ObserveEventRecorded(string(in.Kind), resultFailed)
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	uc.obs.ObserveEventRecorded(string(in.Kind), resultRecorded)
	return e, nil
}

// RecordScan records one menu page view. Storage failures are logged
// and swallowed; only validation errors reach the caller.
func (uc *RecordEventUseCase) RecordScan(ctx context.Context, slug string) error {
	return uc.record(ctx, RecordEventInput{TenantSlug: slug, Kind: domain.KindScan})
}

// RecordClick records one click, optionally tied to a menu position.
// Repeated clicks are not deduplicated.
func (uc *RecordEventUseCase) RecordClick(ctx context.Context, slug string, itemIndex *int) error {
	return uc.record(ctx, RecordEventInput{TenantSlug: slug, Kind: domain.KindClick, ItemIndex: itemIndex})
}

func (uc *RecordEventUseCase) record(ctx context.Context, in RecordEventInput) error {
	_, err := uc.Execute(ctx, in)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageUnavailable) {
		fields := []zap.Field{
			zap.String("tenant_slug", in.TenantSlug),
			zap.String("kind", string(in.Kind)),
			zap.Error(err),
		}
		if in.ItemIndex != nil {
			fields = append(fields, zap.Int("item_index", *in.ItemIndex))
		}
		uc.log.Warn("event not recorded", fields...)
		return nil
	}
	return err
}

func validateInput(in RecordEventInput) error {
	if strings.TrimSpace(in.TenantSlug) == "" {
		return fmt.Errorf("%w: tenant slug is required", ErrInvalidEvent)
	}
	if !in.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, in.Kind)
	}
	if in.ItemIndex != nil {
		if in.Kind != domain.KindClick {
			return fmt.Errorf("%w: item index is only allowed on clicks", ErrInvalidEvent)
		}
		if *in.ItemIndex < 0 {
			return fmt.Errorf("%w: item index must be non-negative", ErrInvalidEvent)
		}
	}
	return nil
}
