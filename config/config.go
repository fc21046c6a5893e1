// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/convect/fluid"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Grid      GridConfig        `yaml:"grid"`
	Physics   PhysicsConfig     `yaml:"physics"`
	Seed      SeedConfig        `yaml:"seed"`
	Pointer   PointerConfig     `yaml:"pointer"`
	Candle    CandleConfig      `yaml:"candle"`
	Candles   []CandlePlacement `yaml:"candles"`
	Parallel  ParallelConfig    `yaml:"parallel"`
	Screen    ScreenConfig      `yaml:"screen"`
	Telemetry TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GridConfig holds the fixed grid resolution and cell spacing.
type GridConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	DX     float64 `yaml:"dx"`
}

// PhysicsConfig holds solver coefficients.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`
	Viscosity          float64 `yaml:"viscosity"`
	HeatDiffusivity    float64 `yaml:"heat_diffusivity"`
	Buoyancy           float64 `yaml:"buoyancy"`            // Upward acceleration per unit heat
	HeatDecay          float64 `yaml:"heat_decay"`          // Fraction of heat lost per unit time
	DiffuseIterations  int     `yaml:"diffuse_iterations"`  // Jacobi sweeps per diffusion solve (even)
	PressureIterations int     `yaml:"pressure_iterations"` // Jacobi sweeps per pressure solve (even)
	ReferencePressure  float64 `yaml:"reference_pressure"`  // Pressure held in solids and past the edge
}

// SeedConfig holds initial condition parameters.
type SeedConfig struct {
	NoiseZoom      float64            `yaml:"noise_zoom"`
	NoiseSeed      int64              `yaml:"noise_seed"`
	VelocityPreset string             `yaml:"velocity_preset"`
	ObstaclePreset string             `yaml:"obstacle_preset"`
	HeatSources    []HeatSourceConfig `yaml:"heat_sources"`
}

// HeatSourceConfig is a disc of constant initial heat in normalised coordinates.
type HeatSourceConfig struct {
	S      float64 `yaml:"s"`
	T      float64 `yaml:"t"`
	Radius float64 `yaml:"radius"`
	Value  float64 `yaml:"value"`
}

// PointerConfig holds the interactive candle that follows the mouse.
type PointerConfig struct {
	Rate   float64 `yaml:"rate"`   // Heat per unit time at the centre
	Radius float64 `yaml:"radius"` // Cells
}

// CandleConfig holds defaults for candles placed with a click.
type CandleConfig struct {
	Rate     float64 `yaml:"rate"`
	Radius   float64 `yaml:"radius"`
	Lifetime int     `yaml:"lifetime"` // Frames; 0 = permanent
}

// CandlePlacement is a candle present from the start, in normalised coordinates.
type CandlePlacement struct {
	S        float64 `yaml:"s"`
	T        float64 `yaml:"t"`
	Rate     float64 `yaml:"rate"`
	Radius   float64 `yaml:"radius"`
	Lifetime int     `yaml:"lifetime"`
}

// ParallelConfig holds worker settings for the solver passes.
type ParallelConfig struct {
	Workers int `yaml:"workers"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	PointSize int `yaml:"point_size"` // Screen pixels per grid cell
	TargetFPS int `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow int `yaml:"stats_window"` // Frames per stats record
	PerfWindow  int `yaml:"perf_window"`  // Frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenWidth  int32 // Grid width * point size
	ScreenHeight int32 // Grid height * point size
	CFLLimit     float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if _, err := cfg.SolverParams(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	// Keep buffer parity: odd sweep counts round down
	c.Physics.DiffuseIterations = (c.Physics.DiffuseIterations / 2) * 2
	c.Physics.PressureIterations = (c.Physics.PressureIterations / 2) * 2

	if c.Screen.PointSize < 1 {
		c.Screen.PointSize = 1
	}
	if c.Telemetry.StatsWindow < 1 {
		c.Telemetry.StatsWindow = 1
	}

	c.Derived.ScreenWidth = int32(c.Grid.Width * c.Screen.PointSize)
	c.Derived.ScreenHeight = int32(c.Grid.Height * c.Screen.PointSize)
	c.Derived.CFLLimit = 1.0
}

// SolverParams converts the configuration into validated solver parameters.
func (c *Config) SolverParams() (fluid.Params, error) {
	sources := make([]fluid.HeatSource, len(c.Seed.HeatSources))
	for i, hs := range c.Seed.HeatSources {
		sources[i] = fluid.HeatSource{
			S:      float32(hs.S),
			T:      float32(hs.T),
			Radius: float32(hs.Radius),
			Value:  float32(hs.Value),
		}
	}

	p := fluid.Params{
		Width:              c.Grid.Width,
		Height:             c.Grid.Height,
		DX:                 float32(c.Grid.DX),
		DT:                 float32(c.Physics.DT),
		Viscosity:          float32(c.Physics.Viscosity),
		HeatDiffusivity:    float32(c.Physics.HeatDiffusivity),
		Buoyancy:           float32(c.Physics.Buoyancy),
		HeatDecay:          float32(c.Physics.HeatDecay),
		DiffuseIterations:  c.Physics.DiffuseIterations,
		PressureIterations: c.Physics.PressureIterations,
		ReferencePressure:  float32(c.Physics.ReferencePressure),
		PointerRate:        float32(c.Pointer.Rate),
		PointerRadius:      float32(c.Pointer.Radius),
		Seed: fluid.SeedParams{
			NoiseZoom:   float32(c.Seed.NoiseZoom),
			NoiseSeed:   c.Seed.NoiseSeed,
			Velocity:    fluid.VelocityPreset(c.Seed.VelocityPreset),
			Obstacles:   fluid.ObstaclePreset(c.Seed.ObstaclePreset),
			HeatSources: sources,
		},
	}
	if err := p.Validate(); err != nil {
		return fluid.Params{}, err
	}
	return p, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
