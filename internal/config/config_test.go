package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bryanchriswhite/snaploupe/internal/session"
)

func TestNewManagerCreatesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	cfg := m.Get()
	if cfg.LogLevel != "info" {
		t.Errorf("default log level = %q, want info", cfg.LogLevel)
	}
	if cfg.Session != session.DefaultOptions() {
		t.Errorf("default session options = %+v", cfg.Session)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	cfg := m.Get()
	cfg.LogLevel = "debug"
	cfg.DebugAddr = "127.0.0.1:9090"
	cfg.Session.Alt = session.AltToggle
	cfg.Session.LoupeSidePx = 15
	if err := m.Update(cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}

	reloaded, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager reload: %v", err)
	}
	got := reloaded.Get()
	if got.LogLevel != "debug" || got.DebugAddr != "127.0.0.1:9090" {
		t.Errorf("reloaded config = %+v", got)
	}
	if got.Session.Alt != session.AltToggle || got.Session.LoupeSidePx != 15 {
		t.Errorf("reloaded session options = %+v", got.Session)
	}
}

func TestUpdateNormalizesSessionOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	opts := session.DefaultOptions()
	opts.Opacity = -0.5
	opts.LoupeSidePx = 2
	if err := m.UpdateSessionOptions(opts); err != nil {
		t.Fatalf("UpdateSessionOptions: %v", err)
	}

	got := m.GetSessionOptions()
	if got.Opacity != 0 {
		t.Errorf("opacity = %v, want clamped to 0", got.Opacity)
	}
	if got.LoupeSidePx != 3 {
		t.Errorf("loupe side = %d, want 3", got.LoupeSidePx)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewManager(path); err == nil {
		t.Fatal("NewManager accepted malformed yaml")
	}
}
