package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func setupHandler(t *testing.T) (*Handler, *Logger) {
	t.Helper()
	logger := NewLogger(NewMemStore(), zerolog.Nop())
	return NewHandler(logger), logger
}

func TestHandler_Search(t *testing.T) {
	h, logger := setupHandler(t)

	authID := uuid.New()
	logger.Append(context.Background(), Entry{ActorID: "alice", Action: ActionStepCompleted, ResourceType: "prior_authorization", ResourceID: &authID})
	logger.Append(context.Background(), Entry{ActorID: "bob", Action: ActionFormsGenerated, ResourceType: "form_package"})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit?actor_id=alice", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Search(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []*Record `json:"data"`
		Total int       `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Errorf("expected 1 matching record, got %d", resp.Total)
	}
	if len(resp.Data) != 1 || resp.Data[0].ActorID != "alice" {
		t.Errorf("unexpected results: %+v", resp.Data)
	}
}

func TestHandler_Search_InvalidResourceID(t *testing.T) {
	h, _ := setupHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit?resource_id=not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Search(c)
	if err == nil {
		t.Fatal("expected error for invalid resource_id")
	}
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %v", err)
	}
}

func TestHandler_Search_InvalidTimeRange(t *testing.T) {
	h, _ := setupHandler(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/audit?from=yesterday", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Search(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad from param, got %v", err)
	}
}
