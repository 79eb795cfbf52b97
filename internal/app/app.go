// Package app wires storage, usecases and HTTP adapters into one service.
package app

import (
	analyticsHttp "menu-analytics-service/internal/analytics/adapters/http/fiber"
	analyticsUsecase "menu-analytics-service/internal/analytics/core/usecase"
	"menu-analytics-service/internal/catalog/jsonfile"
	eventsHttp "menu-analytics-service/internal/events/adapters/http/fiber"
	eventsUsecase "menu-analytics-service/internal/events/core/usecase"
	"menu-analytics-service/internal/platform/httpserver"
	"menu-analytics-service/internal/platform/telemetry"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "menu-analytics-service/docs"
)

type Deps struct {
	Storage      *Storage
	Logger       *zap.Logger
	Metrics      *telemetry.Metrics
	MenuDataFile string
	// Options apply to both analytics usecases, after the metrics observer.
	AnalyticsOptions []analyticsUsecase.Option
}

// New builds the Fiber application with every route registered.
func New(d Deps) *fiber.App {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metrics := d.Metrics
	if metrics == nil {
		metrics = telemetry.New()
	}

	// Usecases
	recordUC := eventsUsecase.NewRecordEventUseCase(d.Storage.Events, log.Named("events"), metrics)

	queryOpts := append([]analyticsUsecase.Option{analyticsUsecase.WithObserver(metrics)}, d.AnalyticsOptions...)
	summaryUC := analyticsUsecase.NewGetMonthlySummaryUseCase(d.Storage.Analytics, queryOpts...)
	topItemsUC := analyticsUsecase.NewGetTopItemsUseCase(d.Storage.Analytics, queryOpts...)

	// HTTP (Fiber) app + handlers
	app := httpserver.New(log.Named("http"), metrics)

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(recordUC)
	app.Post("/api/:slug/scan", eventsHandler.RecordScan)
	app.Post("/api/:slug/item/:index/click", eventsHandler.RecordItemClick)
	app.Post("/api/:slug/click", eventsHandler.RecordGenericClick)

	// analytics endpoints
	analyticsHandler := analyticsHttp.NewAnalyticsHandler(summaryUC, topItemsUC, jsonfile.NewCatalog(d.MenuDataFile))
	app.Get("/admin/:slug/analytics", analyticsHandler.GetMonthlySummary)
	app.Get("/api/:slug/top-items", analyticsHandler.GetTopItems)

	return app
}
