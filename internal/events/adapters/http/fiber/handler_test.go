package fiber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-analytics-service/internal/events/core/usecase"

	"github.com/gofiber/fiber/v2"
)

type recordCall struct {
	kind  string
	slug  string
	index *int
}

type fakeRecordEventUseCase struct {
	Err   error
	calls []recordCall
}

func (f *fakeRecordEventUseCase) RecordScan(ctx context.Context, slug string) error {
	f.calls = append(f.calls, recordCall{kind: "scan", slug: slug})
	return f.Err
}

func (f *fakeRecordEventUseCase) RecordClick(ctx context.Context, slug string, itemIndex *int) error {
	f.calls = append(f.calls, recordCall{kind: "click", slug: slug, index: itemIndex})
	return f.Err
}

// helper: create fiber app and routes
func setupTestApp(uc RecordEventUseCase) *fiber.App {
	app := fiber.New()
	h := NewEventHandler(uc)

	app.Post("/api/:slug/scan", h.RecordScan)
	app.Post("/api/:slug/item/:index/click", h.RecordItemClick)
	app.Post("/api/:slug/click", h.RecordGenericClick)

	return app
}

// helper: send request
func doRequest(t *testing.T, app *fiber.App, method, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test error: %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func TestRecordScan_Success(t *testing.T) {
	fakeUC := &fakeRecordEventUseCase{}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/api/pizza-place/scan")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}

	var respJSON OKResponse
	if err := json.Unmarshal(body, &respJSON); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if !respJSON.OK {
		t.Errorf("expected ok=true")
	}
	if len(fakeUC.calls) != 1 || fakeUC.calls[0].kind != "scan" || fakeUC.calls[0].slug != "pizza-place" {
		t.Fatalf("unexpected calls: %+v", fakeUC.calls)
	}
}

func TestRecordItemClick_Success(t *testing.T) {
	fakeUC := &fakeRecordEventUseCase{}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/api/cafe/item/3/click")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusOK, resp.StatusCode, string(body))
	}
	if len(fakeUC.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fakeUC.calls))
	}
	call := fakeUC.calls[0]
	if call.kind != "click" || call.index == nil || *call.index != 3 {
		t.Fatalf("unexpected call: %+v", call)
	}
}

func TestRecordItemClick_InvalidIndex(t *testing.T) {
	for _, idx := range []string{"abc", "-1", "1.5"} {
		t.Run(idx, func(t *testing.T) {
			fakeUC := &fakeRecordEventUseCase{}
			app := setupTestApp(fakeUC)

			resp, body := doRequest(t, app, http.MethodPost, fmt.Sprintf("/api/cafe/item/%s/click", idx))

			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
			}
			if len(fakeUC.calls) != 0 {
				t.Fatalf("usecase must not be called for invalid index")
			}
		})
	}
}

func TestRecordGenericClick_Success(t *testing.T) {
	fakeUC := &fakeRecordEventUseCase{}
	app := setupTestApp(fakeUC)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/cafe/click")

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if len(fakeUC.calls) != 1 || fakeUC.calls[0].index != nil {
		t.Fatalf("expected one generic click, got %+v", fakeUC.calls)
	}
}

func TestRecordScan_ValidationError(t *testing.T) {
	fakeUC := &fakeRecordEventUseCase{Err: fmt.Errorf("%w: tenant slug is required", usecase.ErrInvalidEvent)}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/api/%20/scan")

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusBadRequest, resp.StatusCode, string(body))
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if errResp.Error != "invalid_event" {
		t.Errorf("expected error=invalid_event, got %s", errResp.Error)
	}
}

func TestRecordScan_InternalError(t *testing.T) {
	fakeUC := &fakeRecordEventUseCase{Err: errors.New("boom")}
	app := setupTestApp(fakeUC)

	resp, body := doRequest(t, app, http.MethodPost, "/api/cafe/scan")

	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d (body: %s)", http.StatusInternalServerError, resp.StatusCode, string(body))
	}
}
