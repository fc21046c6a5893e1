package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/convect/fluid"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Grid.Width != 256 || cfg.Grid.Height != 256 {
		t.Errorf("expected 256x256 grid, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Physics.PressureIterations != 200 {
		t.Errorf("expected 200 pressure iterations, got %d", cfg.Physics.PressureIterations)
	}
	if cfg.Derived.ScreenWidth != 768 {
		t.Errorf("expected screen width 768, got %d", cfg.Derived.ScreenWidth)
	}
	if len(cfg.Seed.HeatSources) != 2 {
		t.Errorf("expected 2 default heat sources, got %d", len(cfg.Seed.HeatSources))
	}
}

func TestSolverParamsMatchDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}
	p, err := cfg.SolverParams()
	if err != nil {
		t.Fatalf("converting params: %v", err)
	}

	want := fluid.DefaultParams()
	if p.Width != want.Width || p.Height != want.Height {
		t.Errorf("grid mismatch: got %dx%d, want %dx%d", p.Width, p.Height, want.Width, want.Height)
	}
	if p.Buoyancy != want.Buoyancy || p.Viscosity != want.Viscosity {
		t.Errorf("coefficient mismatch: got buoyancy=%v viscosity=%v", p.Buoyancy, p.Viscosity)
	}
	if p.Seed.Velocity != fluid.VelocityZero || p.Seed.Obstacles != fluid.ObstaclesWalls {
		t.Errorf("unexpected presets: %q %q", p.Seed.Velocity, p.Seed.Obstacles)
	}
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	data := []byte("grid:\n  width: 64\n  height: 32\nphysics:\n  pressure_iterations: 41\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}
	if cfg.Grid.Width != 64 || cfg.Grid.Height != 32 {
		t.Errorf("expected 64x32, got %dx%d", cfg.Grid.Width, cfg.Grid.Height)
	}
	if cfg.Physics.DiffuseIterations != 60 {
		t.Errorf("expected default diffuse iterations kept, got %d", cfg.Physics.DiffuseIterations)
	}
	if cfg.Physics.PressureIterations != 40 {
		t.Errorf("expected odd pressure iterations rounded to 40, got %d", cfg.Physics.PressureIterations)
	}
}

func TestLoadRejectsInvalidGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  width: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, fluid.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Physics.Buoyancy = 0.05

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if back.Physics.Buoyancy != 0.05 {
		t.Errorf("expected buoyancy 0.05 after reload, got %v", back.Physics.Buoyancy)
	}
}
