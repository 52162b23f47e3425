package db

import (
	"encoding/json"
	"testing"
	"time"
)

func TestHealthResponse_JSONShape(t *testing.T) {
	resp := healthResponse{
		Status:    "healthy",
		CheckedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Pool: &PoolStats{
			TotalConns:      4,
			IdleConns:       3,
			AcquiredConns:   1,
			MaxConns:        10,
			AcquireCount:    250,
			AcquireDuration: "1.5ms",
			Healthy:         true,
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", decoded["status"])
	}
	if _, present := decoded["error"]; present {
		t.Error("expected error field to be omitted when empty")
	}
	pool, ok := decoded["pool"].(map[string]any)
	if !ok {
		t.Fatalf("expected pool object, got %T", decoded["pool"])
	}
	if pool["total_conns"] != float64(4) {
		t.Errorf("expected total_conns 4, got %v", pool["total_conns"])
	}
	if pool["healthy"] != true {
		t.Errorf("expected healthy true, got %v", pool["healthy"])
	}
}

func TestHealthResponse_UnhealthyIncludesError(t *testing.T) {
	resp := healthResponse{
		Status:    "unhealthy",
		Error:     "dial tcp: connection refused",
		CheckedAt: time.Now().UTC(),
		Pool:      &PoolStats{MaxConns: 10},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["status"] != "unhealthy" {
		t.Errorf("expected status unhealthy, got %v", decoded["status"])
	}
	if decoded["error"] != "dial tcp: connection refused" {
		t.Errorf("expected error message, got %v", decoded["error"])
	}
	pool := decoded["pool"].(map[string]any)
	if pool["healthy"] != false {
		t.Errorf("expected pool healthy false, got %v", pool["healthy"])
	}
}
