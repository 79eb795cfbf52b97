package fiber

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"menu-analytics-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type RecordEventUseCase interface {
	RecordScan(ctx context.Context, slug string) error
	RecordClick(ctx context.Context, slug string, itemIndex *int) error
}

type EventHandler struct {
	recordUC RecordEventUseCase
}

func NewEventHandler(recordUC RecordEventUseCase) *EventHandler {
	return &EventHandler{recordUC: recordUC}
}

// RecordScan godoc
// @Summary Record a menu scan
// @Description Records one view of the tenant's menu page. Storage failures are logged, not returned.
// @Tags Events
// @Produce json
// @Param slug path string true "Tenant slug"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/{slug}/scan [post]
func (h *EventHandler) RecordScan(c *fiber.Ctx) error {
	err := h.recordUC.RecordScan(c.UserContext(), c.Params("slug"))
	return h.respond(c, err)
}

// RecordItemClick godoc
// @Summary Record a click on a menu item
// @Description Records one click tied to the menu position. Repeated clicks are all counted.
// @Tags Events
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param index path int true "Menu item position"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/{slug}/item/{index}/click [post]
func (h *EventHandler) RecordItemClick(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil || index < 0 {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_item_index",
			Message: "item index must be a non-negative integer",
		})
	}

	err = h.recordUC.RecordClick(c.UserContext(), c.Params("slug"), &index)
	return h.respond(c, err)
}

// RecordGenericClick godoc
// @Summary Record a generic click
// @Description Records a click that is not tied to a menu item (e.g. the order button).
// @Tags Events
// @Produce json
// @Param slug path string true "Tenant slug"
// @Success 200 {object} OKResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/{slug}/click [post]
func (h *EventHandler) RecordGenericClick(c *fiber.Ctx) error {
	err := h.recordUC.RecordClick(c.UserContext(), c.Params("slug"), nil)
	return h.respond(c, err)
}

func (h *EventHandler) respond(c *fiber.Ctx, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidEvent):
			return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
				Error:   "invalid_event",
				Message: err.Error(),
			})
		default:
			return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
				Error: "internal_server_error",
			})
		}
	}

	return c.Status(http.StatusOK).JSON(OKResponse{OK: true})
}
