package fiber

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"menu-analytics-service/internal/analytics/core/domain"
	"menu-analytics-service/internal/analytics/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type GetMonthlySummaryUseCase interface {
	Execute(ctx context.Context, in usecase.GetMonthlySummaryInput) (*domain.MonthlySummary, error)
}

type GetTopItemsUseCase interface {
	Execute(ctx context.Context, in usecase.GetTopItemsInput) (*domain.TopItemsReport, error)
}

// ItemNamer resolves menu positions to display names.
type ItemNamer interface {
	MenuItemNames(ctx context.Context, slug string) ([]string, error)
}

const genericItemName = "General"

type AnalyticsHandler struct {
	summaryUC  GetMonthlySummaryUseCase
	topItemsUC GetTopItemsUseCase
	namer      ItemNamer
}

// NewAnalyticsHandler builds the handler. namer may be nil, in which case
// every item gets a placeholder name.
func NewAnalyticsHandler(summaryUC GetMonthlySummaryUseCase, topItemsUC GetTopItemsUseCase, namer ItemNamer) *AnalyticsHandler {
	return &AnalyticsHandler{summaryUC: summaryUC, topItemsUC: topItemsUC, namer: namer}
}

// GetMonthlySummary godoc
// @Summary Monthly analytics summary
// @Description Scan and click totals for one calendar month (UTC) plus the 10 most clicked items
// @Tags Analytics
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param year query int false "Year, defaults to the current UTC year"
// @Param month query int false "Month 1-12, defaults to the current UTC month"
// @Success 200 {object} MonthlySummaryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/{slug}/analytics [get]
func (h *AnalyticsHandler) GetMonthlySummary(c *fiber.Ctx) error {
	year, err := optionalInt(c, "year")
	if err != nil {
		return badQuery(c, err)
	}
	month, err := optionalInt(c, "month")
	if err != nil {
		return badQuery(c, err)
	}

	slug := c.Params("slug")
	res, err := h.summaryUC.Execute(c.UserContext(), usecase.GetMonthlySummaryInput{
		TenantSlug: slug,
		Year:       year,
		Month:      month,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(MonthlySummaryResponse{
		Slug:     res.TenantSlug,
		Year:     res.Year,
		Month:    int(res.Month),
		From:     res.From,
		To:       res.To,
		Scans:    res.Scans,
		Clicks:   res.Clicks,
		TopItems: h.nameItems(c.UserContext(), res.TenantSlug, res.TopItems),
	})
}

// GetTopItems godoc
// @Summary Most clicked items
// @Description Up to 20 items ranked by clicks over the trailing window ending now
// @Tags Analytics
// @Produce json
// @Param slug path string true "Tenant slug"
// @Param since_days query int false "Window length in days, defaults to 30"
// @Success 200 {object} TopItemsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/{slug}/top-items [get]
func (h *AnalyticsHandler) GetTopItems(c *fiber.Ctx) error {
	sinceDays, err := optionalInt(c, "since_days")
	if err != nil {
		return badQuery(c, err)
	}

	res, err := h.topItemsUC.Execute(c.UserContext(), usecase.GetTopItemsInput{
		TenantSlug: c.Params("slug"),
		SinceDays:  sinceDays,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.Status(http.StatusOK).JSON(TopItemsResponse{
		Slug:      res.TenantSlug,
		SinceDays: res.SinceDays,
		From:      res.From,
		To:        res.To,
		Items:     h.nameItems(c.UserContext(), res.TenantSlug, res.Items),
	})
}

// nameItems labels ranked groups. Names are cosmetic: a catalog failure
// falls back to placeholders instead of failing the report.
func (h *AnalyticsHandler) nameItems(ctx context.Context, slug string, items []domain.ItemClicks) []TopItemResponse {
	var names []string
	if h.namer != nil && len(items) > 0 {
		if n, err := h.namer.MenuItemNames(ctx, slug); err == nil {
			names = n
		}
	}

	out := make([]TopItemResponse, 0, len(items))
	for _, it := range items {
		r := TopItemResponse{Index: it.ItemIndex, Clicks: it.Clicks}
		switch {
		case it.ItemIndex == nil:
			r.Name = genericItemName
		case *it.ItemIndex < len(names) && names[*it.ItemIndex] != "":
			r.Name = names[*it.ItemIndex]
		default:
			r.Name = fmt.Sprintf("Item %d", *it.ItemIndex)
		}
		out = append(out, r)
	}
	return out
}

func optionalInt(c *fiber.Ctx, key string) (*int, error) {
	raw := c.Query(key, "")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

func badQuery(c *fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_query",
		Message: err.Error(),
	})
}

func (h *AnalyticsHandler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrInvalidQuery),
		errors.Is(err, usecase.ErrInvalidWindow):
		return badQuery(c, err)
	case errors.Is(err, usecase.ErrStorageUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "storage_unavailable",
			Message: "analytics storage is unavailable, retry later",
		})
	default:
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Error: "internal_server_error",
		})
	}
}
