// Package game ties the solver, candles, telemetry and raylib front end
// together into the host loop.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/convect/camera"
	"github.com/pthm-cable/convect/config"
	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/renderer"
	"github.com/pthm-cable/convect/systems"
	"github.com/pthm-cable/convect/telemetry"
	"github.com/pthm-cable/convect/ui"
)

// Options configures a Game beyond what the config file holds.
type Options struct {
	Workers        int // Overrides parallel.workers when >= 0
	LogStats       bool
	SnapshotDir    string
	OutputDir      string
	RestorePath    string
	Headless       bool
	StepsPerUpdate int
}

// Game holds the complete host state.
type Game struct {
	cfg    *config.Config
	solver *fluid.Solver

	// Candles
	world          *ecs.World
	candles        *systems.CandleSystem
	candleSettings ui.CandleSettings

	// Telemetry
	perf      *telemetry.PerfCollector
	sampler   *telemetry.Sampler
	events    *telemetry.EventDetector
	output    *telemetry.OutputManager
	lastStats telemetry.FrameStats
	logStats  bool

	// Rendering (nil when headless)
	camera     *camera.Camera
	field      *renderer.FieldRenderer
	hud        *ui.HUD
	statsPanel *ui.StatsPanel
	controls   *ui.ControlStrip

	// State
	view           renderer.View
	paused         bool
	headless       bool
	snapshotDir    string
	stepsPerUpdate int

	// Window dimensions
	screenWidth, screenHeight float32

	// Update rate, measured over one-second windows
	upsWindowStart time.Time
	upsSteps       int
	ups            float64
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := config.Cfg()

	params, err := cfg.SolverParams()
	if err != nil {
		return nil, fmt.Errorf("building solver params: %w", err)
	}

	workers := cfg.Parallel.Workers
	if opts.Workers >= 0 {
		workers = opts.Workers
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	solver, err := fluid.New(params, fluid.WithWorkers(workers), fluid.WithPhaseTimer(perf))
	if err != nil {
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	world := ecs.NewWorld()
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:     cfg,
		solver:  solver,
		world:   world,
		candles: systems.NewCandleSystem(world),
		candleSettings: ui.CandleSettings{
			Rate:     float32(cfg.Candle.Rate),
			Radius:   float32(cfg.Candle.Radius),
			Lifetime: cfg.Candle.Lifetime,
		},
		perf:           perf,
		sampler:        telemetry.NewSampler(),
		events:         telemetry.NewEventDetector(10, float64(cfg.Derived.CFLLimit)),
		logStats:       opts.LogStats,
		headless:       opts.Headless,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: steps,
		screenWidth:    float32(cfg.Derived.ScreenWidth),
		screenHeight:   float32(cfg.Derived.ScreenHeight),
	}
	g.placeConfiguredCandles()

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.solver.Close()
			return nil, fmt.Errorf("creating output: %w", err)
		}
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if opts.RestorePath != "" {
		if err := g.restoreSnapshot(opts.RestorePath); err != nil {
			g.Unload()
			return nil, err
		}
	}

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, params.Width, params.Height, float32(cfg.Screen.PointSize))
		g.field = renderer.NewFieldRenderer(params.Width, params.Height)
		g.hud = ui.NewHUD()
		g.statsPanel = ui.NewStatsPanel(int32(g.screenWidth)-250, 10, 240)
		g.controls = ui.NewControlStrip()
	}

	slog.Info("solver created",
		"width", params.Width,
		"height", params.Height,
		"dt", params.DT,
		"dx", params.DX,
		"workers", workers,
		"velocity_preset", params.Seed.Velocity,
		"obstacle_preset", params.Seed.Obstacles,
		"candles", g.candles.Count(),
	)

	return g, nil
}

// placeConfiguredCandles adds the candles listed in the config.
func (g *Game) placeConfiguredCandles() {
	p := g.solver.Params()
	for _, c := range g.cfg.Candles {
		g.candles.Add(
			float32(c.S)*float32(p.Width),
			float32(c.T)*float32(p.Height),
			float32(c.Rate), float32(c.Radius), c.Lifetime,
		)
	}
}

// Update runs input handling and the simulation for one display frame.
func (g *Game) Update() {
	g.handleInput()

	if !g.paused {
		for i := 0; i < g.stepsPerUpdate; i++ {
			g.step()
		}
	}

	g.measureUPS()
	g.perf.RecordFrame()
}

// UpdateHeadless runs the simulation without graphics.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step advances candles and the solver by one frame.
func (g *Game) step() {
	g.perf.StartTick()

	g.perf.StartPhase(telemetry.PhaseCandles)
	g.candles.Update()
	g.solver.SetEmitters(g.candles.Emitters())

	g.solver.Step()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	g.upsSteps++
}

// measureUPS updates the steps-per-second estimate once a second.
func (g *Game) measureUPS() {
	now := time.Now()
	if g.upsWindowStart.IsZero() {
		g.upsWindowStart = now
		return
	}
	if elapsed := now.Sub(g.upsWindowStart); elapsed >= time.Second {
		g.ups = float64(g.upsSteps) / elapsed.Seconds()
		g.upsSteps = 0
		g.upsWindowStart = now
	}
}

// Frame returns the number of completed solver steps.
func (g *Game) Frame() uint64 {
	return g.solver.Frame()
}

// Solver returns the fluid solver.
func (g *Game) Solver() *fluid.Solver {
	return g.solver
}

// Candles returns the candle system.
func (g *Game) Candles() *systems.CandleSystem {
	return g.candles
}

// LastStats returns the most recent field statistics.
func (g *Game) LastStats() telemetry.FrameStats {
	return g.lastStats
}
