package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	analyticsMongo "menu-analytics-service/internal/analytics/adapters/mongo"
	analyticsPg "menu-analytics-service/internal/analytics/adapters/postgres"
	analyticsSqlite "menu-analytics-service/internal/analytics/adapters/sqlite"
	analyticsPorts "menu-analytics-service/internal/analytics/core/ports"
	eventsMongo "menu-analytics-service/internal/events/adapters/mongo"
	eventsPg "menu-analytics-service/internal/events/adapters/postgres"
	eventsSqlite "menu-analytics-service/internal/events/adapters/sqlite"
	eventsPorts "menu-analytics-service/internal/events/core/ports"
	"menu-analytics-service/internal/platform/config"
	"menu-analytics-service/internal/platform/storage/mongodb"
	"menu-analytics-service/internal/platform/storage/postgresdb"
	"menu-analytics-service/internal/platform/storage/sqlitedb"
	"menu-analytics-service/internal/platform/storage/sqlstore"
)

// Storage is the opened event log: one process-wide handle shared by the
// recorder and the query side.
type Storage struct {
	Backend   string
	Events    eventsPorts.EventRepositoryPort
	Analytics analyticsPorts.AnalyticsReaderPort

	close func(ctx context.Context) error
}

func (s *Storage) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// OpenStorage connects to the configured backend and makes sure its schema
// exists before returning.
func OpenStorage(ctx context.Context, cfg config.Storage) (*Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite, "":
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendPostgres:
		return openPostgres(ctx, cfg)
	case config.BackendMongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// OpenSQLite opens the sqlite event log. The optional clock stamps new
// events; it defaults to time.Now.
func OpenSQLite(ctx context.Context, path string, clock ...func() time.Time) (*Storage, error) {
	db, err := sqlitedb.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	var opts []eventsSqlite.Option
	if len(clock) > 0 && clock[0] != nil {
		opts = append(opts, eventsSqlite.WithClock(clock[0]))
	}

	handle := sqlstore.Wrap(db)
	return &Storage{
		Backend:   config.BackendSQLite,
		Events:    eventsSqlite.NewEventRepository(handle, opts...),
		Analytics: analyticsSqlite.NewAnalyticsRepository(handle),
		close:     closeSQL(db),
	}, nil
}

func openPostgres(ctx context.Context, cfg config.Storage) (*Storage, error) {
	db, err := postgresdb.Open(ctx, postgresdb.Options{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.PostgresMaxOpenConns,
		MaxIdleConns:    cfg.PostgresMaxIdleConns,
		ConnMaxLifetime: cfg.PostgresConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	handle := sqlstore.Wrap(db)
	return &Storage{
		Backend:   config.BackendPostgres,
		Events:    eventsPg.NewEventRepository(handle),
		Analytics: analyticsPg.NewAnalyticsRepository(handle),
		close:     closeSQL(db),
	}, nil
}

func openMongo(ctx context.Context, cfg config.Storage) (*Storage, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Options{URI: cfg.MongoURI, Database: cfg.MongoDB})
	if err != nil {
		return nil, err
	}

	events := db.Collection(mongodb.EventsCollection)
	return &Storage{
		Backend:   config.BackendMongo,
		Events:    eventsMongo.NewEventRepository(events, db.Collection(mongodb.CountersCollection)),
		Analytics: analyticsMongo.NewAnalyticsRepository(events),
		close:     client.Disconnect,
	}, nil
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}
