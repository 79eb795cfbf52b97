// Package telemetry owns the Prometheus collectors of the service.
package telemetry

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "menu_analytics"

// Metrics implements the record and query observers of the usecases.
type Metrics struct {
	registry *prometheus.Registry

	eventsRecorded *prometheus.CounterVec
	queryDuration  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

// New registers the service collectors plus the Go runtime and process
// collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		eventsRecorded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_recorded_total",
				Help:      "Scan and click events by outcome (recorded, rejected, failed).",
			},
			[]string{"kind", "result"},
		),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Latency of analytics queries.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route pattern and status code.",
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		m.eventsRecorded,
		m.queryDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveEventRecorded(kind, result string) {
	m.eventsRecorded.WithLabelValues(normalizeLabel(kind, "unknown"), normalizeLabel(result, "unknown")).Inc()
}

func (m *Metrics) ObserveQuery(name string, took time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.queryDuration.WithLabelValues(normalizeLabel(name, "unknown"), status).Observe(took.Seconds())
}

// Middleware counts requests by route pattern, so tenant slugs never
// become label values.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		route := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			route = r.Path
		}
		// c.Method() aliases the fasthttp request buffer, which is reused
		// once the handler returns; the registry keeps label values.
		m.httpRequests.WithLabelValues(utils.CopyString(c.Method()), route, strconv.Itoa(status)).Inc()
		return err
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry}))
}

func normalizeLabel(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
