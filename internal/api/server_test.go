package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/bryanchriswhite/snaploupe/internal/config"
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfgMgr, err := config.NewManager(filepath.Join(t.TempDir(), "config.yaml"))
	if err != nil {
		t.Fatalf("config.NewManager: %v", err)
	}
	monitors := []geometry.Monitor{
		{ID: 1, Origin: geometry.Pt(0, 0), Width: 1920, Height: 1080, ScaleX1000: 1000},
	}
	return NewServer(cfgMgr, monitors)
}

func TestGetStateReturnsLatestPublished(t *testing.T) {
	s := newTestServer(t)
	s.Publish(StateView{Mode: "live", Generation: 3, Cursor: geometry.Pt(10, 20), Color: "#FF8000"})

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/state", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var view StateView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Mode != "live" || view.Generation != 3 || view.Color != "#FF8000" {
		t.Errorf("state = %+v", view)
	}
}

func TestGetMonitors(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/monitors", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var monitors []geometry.Monitor
	if err := json.Unmarshal(rec.Body.Bytes(), &monitors); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(monitors) != 1 || monitors[0].Width != 1920 {
		t.Errorf("monitors = %+v", monitors)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
