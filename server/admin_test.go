package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestCoordinator() *Coordinator {
	m := NewMetrics()
	return NewCoordinator(DefaultConfig(), NewRoomRegistry(nil, m), m)
}

func TestAdminConfigGet(t *testing.T) {
	co := newTestCoordinator()
	rec := httptest.NewRecorder()
	co.HandleAdminConfig(rec, httptest.NewRequest(http.MethodGet, "/admin/config", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		GridSize  int `json:"gridSize"`
		FrameRate int `json:"frameRate"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.GridSize != DefaultGridSize || body.FrameRate != DefaultFrameRate {
		t.Fatalf("body = %+v", body)
	}
}

func TestAdminConfigUpdate(t *testing.T) {
	co := newTestCoordinator()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/config", strings.NewReader(`{"gridSize":32,"frameRate":30}`))
	co.HandleAdminConfig(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	gridSize, frameRate := co.cfg.RoomDefaults()
	if gridSize != 32 || frameRate != 30 {
		t.Fatalf("defaults = %d,%d; want 32,30", gridSize, frameRate)
	}
}

func TestAdminConfigRejectsOutOfRange(t *testing.T) {
	co := newTestCoordinator()
	for _, payload := range []string{`{"gridSize":2}`, `{"frameRate":0}`, `{"frameRate":999}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin/config", strings.NewReader(payload))
		co.HandleAdminConfig(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("payload %q: status = %d, want 400", payload, rec.Code)
		}
	}
	if gridSize, frameRate := co.cfg.RoomDefaults(); gridSize != DefaultGridSize || frameRate != DefaultFrameRate {
		t.Fatalf("defaults changed by rejected update: %d,%d", gridSize, frameRate)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	co := newTestCoordinator()
	co.metrics.IncRoomCreated()
	co.metrics.AddTick(1e6)

	rec := httptest.NewRecorder()
	co.HandleMetrics(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		ActiveRooms int            `json:"active_rooms"`
		Metrics     map[string]any `json:"metrics"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.ActiveRooms != 0 {
		t.Fatalf("active_rooms = %d", body.ActiveRooms)
	}
	if body.Metrics["rooms_created"].(float64) != 1 {
		t.Fatalf("rooms_created = %v", body.Metrics["rooms_created"])
	}
	if body.Metrics["tick_count"].(float64) != 1 {
		t.Fatalf("tick_count = %v", body.Metrics["tick_count"])
	}
}
