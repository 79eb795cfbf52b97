// Package sqlstore narrows *sql.DB to the small interfaces the SQL adapters
// depend on, so repositories can be tested against fakes.
package sqlstore

import (
	"context"
	"database/sql"
)

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

type Row interface {
	Scan(dest ...any) error
}

type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (Rows, error)
}

type RowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) Row
}

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Handle adapts *sql.DB to Querier, RowQuerier and Execer.
type Handle struct {
	db *sql.DB
}

var (
	_ Querier    = (*Handle)(nil)
	_ RowQuerier = (*Handle)(nil)
	_ Execer     = (*Handle)(nil)
)

func Wrap(db *sql.DB) *Handle {
	return &Handle{db: db}
}

func (h *Handle) QueryContext(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (h *Handle) QueryRowContext(ctx context.Context, query string, args ...any) Row {
	return h.db.QueryRowContext(ctx, query, args...)
}

func (h *Handle) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return h.db.ExecContext(ctx, query, args...)
}
