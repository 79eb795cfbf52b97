// Package httpserver builds the Fiber application shared by all routes:
// panic recovery, request ids, access logging, request metrics, the
// /metrics scrape endpoint and the API docs.
package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

const RequestIDHeader = fiber.HeaderXRequestID

// MetricsSource is the part of telemetry.Metrics the server wires in.
type MetricsSource interface {
	Middleware() fiber.Handler
	Handler() fiber.Handler
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// New returns an app with the shared middleware and operational routes
// registered. metrics may be nil.
func New(log *zap.Logger, metrics MetricsSource) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               "menu-analytics-service",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Header:    RequestIDHeader,
		Generator: uuid.NewString,
	}))
	app.Use(accessLog(log))
	if metrics != nil {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	return app
}

func accessLog(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", requestIDOf(c)),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("http request", append(fields, zap.Error(err))...)
		case status >= http.StatusBadRequest:
			log.Info("http request", fields...)
		default:
			log.Debug("http request", fields...)
		}
		return err
	}
}

// errorHandler renders errors that escape handlers (unknown routes, panics)
// with the same body the adapters use.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := http.StatusInternalServerError
		body := errorBody{Error: "internal_server_error"}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			body = errorBody{Error: errorCode(code), Message: fe.Message}
		} else {
			log.Error("unhandled error", zap.Error(err), zap.String("request_id", requestIDOf(c)))
		}
		return c.Status(code).JSON(body)
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case http.StatusBadRequest:
		return "bad_request"
	default:
		if status >= http.StatusInternalServerError {
			return "internal_server_error"
		}
		return "request_error"
	}
}

func requestIDOf(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return c.GetRespHeader(RequestIDHeader)
}
