package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidQuery       = errors.New("invalid analytics query")
	ErrInvalidWindow      = errors.New("invalid time window")
	ErrStorageUnavailable = errors.New("analytics storage unavailable")
)

// QueryObserver receives the duration and outcome of every query.
type QueryObserver interface {
	ObserveQuery(name string, took time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveQuery(string, time.Duration, error) {}

type options struct {
	now func() time.Time
	obs QueryObserver
}

type Option func(*options)

// WithClock sets the clock used for defaults and trailing windows.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithObserver(obs QueryObserver) Option {
	return func(o *options) {
		if obs != nil {
			o.obs = obs
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, obs: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
