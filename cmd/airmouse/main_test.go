package main

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/airmouse/internal/actuator"
	"github.com/ayusman/airmouse/internal/app"
	"github.com/ayusman/airmouse/internal/config"
	"github.com/ayusman/airmouse/internal/geom"
	"github.com/ayusman/airmouse/internal/server"
	"github.com/ayusman/airmouse/internal/source"
	"github.com/ayusman/airmouse/internal/store"
	"github.com/ayusman/airmouse/internal/tray"
)

func TestParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		o, err := parseFlags(nil)
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if o.camera != 0 || o.addr != "127.0.0.1:8080" || o.noTray || o.dryRun {
			t.Errorf("defaults = %+v", o)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		o, err := parseFlags([]string{"-camera", "2", "-no-tray", "-dry-run", "-width", "800", "-height", "600", "-replay", "trace.jsonl"})
		if err != nil {
			t.Fatalf("parseFlags() error = %v", err)
		}
		if o.camera != 2 || !o.noTray || !o.dryRun || o.width != 800 || o.height != 600 || o.replay != "trace.jsonl" {
			t.Errorf("options = %+v", o)
		}
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := parseFlags([]string{"-width", "-1"})
		if !errors.Is(err, config.ErrInvalidConfig) {
			t.Errorf("error = %v, want ErrInvalidConfig", err)
		}
	})
}

func TestLoadTuning(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "airmouse.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer st.Close()

	tuning, err := loadTuning(st)
	if err != nil {
		t.Fatalf("loadTuning() error = %v", err)
	}
	if tuning != config.Default().Tuning {
		t.Errorf("empty store tuning = %+v, want defaults", tuning)
	}

	st.Settings().Set(config.KeySmoothing, "5")
	tuning, err = loadTuning(st)
	if err != nil {
		t.Fatalf("loadTuning() error = %v", err)
	}
	if tuning.Smoothing != 5 {
		t.Errorf("Smoothing = %d, want 5", tuning.Smoothing)
	}

	st.Settings().Set(config.KeyDeadzone, "lots")
	if _, err := loadTuning(st); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("bad saved value error = %v, want ErrInvalidConfig", err)
	}
}

func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig(options{camera: 1, width: 800, height: 600}, config.Default().Tuning)
	if err != nil {
		t.Fatalf("buildConfig() error = %v", err)
	}
	if cfg.CameraID != 1 || cfg.SurfaceWidth != 800 || cfg.SurfaceHeight != 600 {
		t.Errorf("config = %+v", cfg)
	}

	if _, err := buildConfig(options{width: -5}, config.Default().Tuning); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("negative width error = %v, want ErrInvalidConfig", err)
	}

	bad := config.Default().Tuning
	bad.Smoothing = 0
	if _, err := buildConfig(options{}, bad); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("bad tuning error = %v, want ErrInvalidConfig", err)
	}
}

func TestNewActuator_DryRun(t *testing.T) {
	act, w, h, err := newActuator(options{dryRun: true})
	if err != nil {
		t.Fatalf("newActuator() error = %v", err)
	}
	if w != 1920 || h != 1080 {
		t.Errorf("size = %dx%d, want 1920x1080", w, h)
	}
	if p := act.Position(); p.X != 960 || p.Y != 540 {
		t.Errorf("Position() = %v, want center", p)
	}

	if err := act.MoveTo(geom.SurfacePoint{X: 10, Y: 20}); err != nil {
		t.Fatalf("MoveTo() error = %v", err)
	}
	if p := act.Position(); p.X != 10 || p.Y != 20 {
		t.Errorf("Position() after MoveTo = %v", p)
	}
	if err := act.Scroll(-16); err != nil {
		t.Errorf("Scroll() error = %v", err)
	}
}

func TestResolveDBPath(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "airmouse.db")
	got, err := resolveDBPath(want)
	if err != nil {
		t.Fatalf("resolveDBPath() error = %v", err)
	}
	if got != want {
		t.Errorf("resolveDBPath() = %q, want %q", got, want)
	}
	if info, err := os.Stat(filepath.Dir(want)); err != nil || !info.IsDir() {
		t.Errorf("data directory not created: %v", err)
	}
}

func TestFindWebDir(t *testing.T) {
	dir := t.TempDir()
	if got := findWebDir(dir); got != dir {
		t.Errorf("findWebDir(%q) = %q", dir, got)
	}
	if got := findWebDir(filepath.Join(dir, "missing")); got != "" {
		t.Errorf("missing dir = %q, want empty", got)
	}
}

func TestBrowseAddr(t *testing.T) {
	if got := browseAddr(":8080"); got != "localhost:8080" {
		t.Errorf("browseAddr(:8080) = %q", got)
	}
	if got := browseAddr("127.0.0.1:9000"); got != "127.0.0.1:9000" {
		t.Errorf("browseAddr = %q", got)
	}
}

func TestTrayFollowsEnabledState(t *testing.T) {
	tr := tray.New()
	loop, err := app.New(app.Config{
		Source:        source.FromObservations(),
		Actuator:      actuator.NewRecorder(geom.SurfacePoint{X: 960, Y: 540}),
		SurfaceWidth:  1920,
		SurfaceHeight: 1080,
		Tuning:        config.Default().Tuning,
		OnEnabled:     followEnabled(tr),
	})
	if err != nil {
		t.Fatalf("app.New() error = %v", err)
	}
	bindToggle(tr, loop)

	ts := httptest.NewServer(server.New(server.Config{Runtime: loop}))
	defer ts.Close()

	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/status", bytes.NewBufferString(`{"enabled": false}`))
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("PUT /api/status error = %v", err)
	}
	resp.Body.Close()

	if loop.IsEnabled() || tr.IsEnabled() {
		t.Fatalf("after API disable: loop = %v, tray = %v", loop.IsEnabled(), tr.IsEnabled())
	}

	// One tray click turns control back on.
	tr.Toggle()
	if !loop.IsEnabled() || !tr.IsEnabled() {
		t.Errorf("after tray toggle: loop = %v, tray = %v", loop.IsEnabled(), tr.IsEnabled())
	}

	tr.Toggle()
	if loop.IsEnabled() || tr.IsEnabled() {
		t.Errorf("after second toggle: loop = %v, tray = %v", loop.IsEnabled(), tr.IsEnabled())
	}

	followEnabled(nil)(true)
}
