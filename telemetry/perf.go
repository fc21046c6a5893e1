package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/convect/fluid"
)

// Phase names recorded by the host around a solver step. The solver reports
// its own phases (fluid.Phases) through the same collector.
const (
	PhaseCandles   = "candles"
	PhaseTelemetry = "telemetry"
)

// Phases lists every phase in tick order.
var Phases = append(append([]string{PhaseCandles}, fluid.Phases...), PhaseTelemetry)

// PerfCollector tracks tick and phase timings over a rolling window. It
// implements fluid.PhaseTimer. Phases are registered the first time they are
// started, so callers may time names outside Phases.
type PerfCollector struct {
	window int
	next   int // ring slot written by the next EndTick
	filled int

	ticks  []float64   // tick durations in ns, one per slot
	phases [][]float64 // [phase][slot] durations in ns
	names  []string
	index  map[string]int

	current    []time.Duration // per phase, for the tick in progress
	active     int             // index of the running phase, -1 if none
	tickStart  time.Time
	phaseStart time.Time

	// Frame timing (graphics mode)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	p := &PerfCollector{
		window: window,
		ticks:  make([]float64, window),
		index:  make(map[string]int, len(Phases)),
		active: -1,
	}
	for _, name := range Phases {
		p.phaseID(name)
	}
	return p
}

func (p *PerfCollector) phaseID(name string) int {
	if id, ok := p.index[name]; ok {
		return id
	}
	id := len(p.names)
	p.index[name] = id
	p.names = append(p.names, name)
	p.phases = append(p.phases, make([]float64, p.window))
	p.current = append(p.current, 0)
	return id
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	clear(p.current)
	p.active = -1
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.active = p.phaseID(phase)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active >= 0 {
		p.current[p.active] += now.Sub(p.phaseStart)
	}
	p.active = -1
}

// EndTick finishes timing the current tick and records it in the window.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.ticks[p.next] = float64(now.Sub(p.tickStart))
	for id, d := range p.current {
		p.phases[id][p.next] = float64(d)
	}

	p.next = (p.next + 1) % p.window
	if p.filled < p.window {
		p.filled++
	}
}

// Reset discards every recorded tick.
func (p *PerfCollector) Reset() {
	p.next = 0
	p.filled = 0
	p.active = -1
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	// Tick timing
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of the average tick, per phase seen in the window
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return out
	}

	// Slots [0, filled) are valid whether or not the ring has wrapped.
	ticks := p.ticks[:p.filled]
	avg := stat.Mean(ticks, nil)
	sorted := append([]float64(nil), ticks...)
	sort.Float64s(sorted)

	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(sorted[0])
	out.MaxTickDuration = time.Duration(sorted[len(sorted)-1])
	out.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, sorted, nil))
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}

	for id, name := range p.names {
		total := floats.Sum(p.phases[id][:p.filled])
		if total == 0 {
			continue
		}
		phaseAvg := total / float64(p.filled)
		out.PhaseAvg[name] = time.Duration(phaseAvg)
		if avg > 0 {
			out.PhasePct[name] = phaseAvg / avg * 100
		}
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for phase, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(phase+"_pct", pct))
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd     uint64  `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	P95TickUS     int64   `csv:"p95_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	CandlesPct    float64 `csv:"candles_pct"`
	AdvectPct     float64 `csv:"advect_pct"`
	DiffusePct    float64 `csv:"diffuse_pct"`
	BuoyancyPct   float64 `csv:"buoyancy_pct"`
	DivergencePct float64 `csv:"divergence_pct"`
	PressurePct   float64 `csv:"pressure_pct"`
	GradientPct   float64 `csv:"gradient_pct"`
	BoundaryPct   float64 `csv:"boundary_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		P95TickUS:     s.P95TickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		CandlesPct:    s.PhasePct[PhaseCandles],
		AdvectPct:     s.PhasePct[fluid.PhaseAdvect],
		DiffusePct:    s.PhasePct[fluid.PhaseDiffuse],
		BuoyancyPct:   s.PhasePct[fluid.PhaseBuoyancy],
		DivergencePct: s.PhasePct[fluid.PhaseDivergence],
		PressurePct:   s.PhasePct[fluid.PhasePressure],
		GradientPct:   s.PhasePct[fluid.PhaseGradient],
		BoundaryPct:   s.PhasePct[fluid.PhaseBoundary],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
