package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/convect/fluid"
)

// FrameStats holds field statistics sampled at the end of a stats window.
type FrameStats struct {
	Frame   uint64  `csv:"frame"`
	SimTime float64 `csv:"sim_time"`

	// Flow
	MeanAbsDiv    float64 `csv:"mean_abs_div"` // Over fluid cells, after projection
	KineticEnergy float64 `csv:"kinetic_energy"`
	MaxSpeed      float64 `csv:"max_speed"`
	CFL           float64 `csv:"cfl"` // max speed * dt / dx

	// Heat over fluid cells
	HeatTotal float64 `csv:"heat_total"`
	HeatMin   float64 `csv:"heat_min"`
	HeatMax   float64 `csv:"heat_max"`
	HeatP10   float64 `csv:"heat_p10"`
	HeatP50   float64 `csv:"heat_p50"`
	HeatP90   float64 `csv:"heat_p90"`

	// Dye mean over fluid cells and channels
	DyeMean float64 `csv:"dye_mean"`

	Candles int `csv:"candles"`
}

// Sampler computes FrameStats from a solver, reusing its scratch buffers
// between calls.
type Sampler struct {
	heat []float64
	dye  []float64
}

// NewSampler creates a sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Sample reads the solver's current fields.
func (s *Sampler) Sample(sv *fluid.Solver, candles int) FrameStats {
	p := sv.Params()
	obstacles := sv.Obstacles()
	heat := sv.Heat()
	dye := sv.Dye()

	s.heat = s.heat[:0]
	s.dye = s.dye[:0]
	for i, solid := range obstacles.Data {
		if solid > 0.5 {
			continue
		}
		s.heat = append(s.heat, float64(heat.Data[i]))
		for c := 0; c < dye.Comp; c++ {
			s.dye = append(s.dye, float64(dye.Data[i*dye.Comp+c]))
		}
	}

	maxSpeed := float64(sv.MaxSpeed())
	fs := FrameStats{
		Frame:         sv.Frame(),
		SimTime:       float64(sv.Frame()) * float64(p.DT),
		MeanAbsDiv:    float64(sv.MeanAbsDivergence()),
		KineticEnergy: float64(sv.KineticEnergy()),
		MaxSpeed:      maxSpeed,
		CFL:           maxSpeed * float64(p.DT) / float64(p.DX),
		Candles:       candles,
	}

	if len(s.heat) > 0 {
		fs.HeatTotal = floats.Sum(s.heat)
		fs.HeatMin = floats.Min(s.heat)
		fs.HeatMax = floats.Max(s.heat)
		fs.HeatP10, fs.HeatP50, fs.HeatP90 = Quantiles(s.heat)
	}
	if len(s.dye) > 0 {
		fs.DyeMean = stat.Mean(s.dye, nil)
	}
	return fs
}

// Quantiles sorts values in place and returns the 10th, 50th and 90th
// percentiles. Returns zeros for an empty slice.
func Quantiles(values []float64) (p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0
	}
	sort.Float64s(values)
	p10 = stat.Quantile(0.10, stat.LinInterp, values, nil)
	p50 = stat.Quantile(0.50, stat.LinInterp, values, nil)
	p90 = stat.Quantile(0.90, stat.LinInterp, values, nil)
	return p10, p50, p90
}

// Finite reports whether every flow statistic is a finite number.
func (s FrameStats) Finite() bool {
	for _, v := range []float64{s.MeanAbsDiv, s.KineticEnergy, s.MaxSpeed, s.HeatTotal} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("frame", s.Frame),
		slog.Float64("sim_time", s.SimTime),
		slog.Float64("mean_abs_div", s.MeanAbsDiv),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Float64("max_speed", s.MaxSpeed),
		slog.Float64("cfl", s.CFL),
		slog.Float64("heat_total", s.HeatTotal),
		slog.Float64("heat_min", s.HeatMin),
		slog.Float64("heat_max", s.HeatMax),
		slog.Float64("heat_p10", s.HeatP10),
		slog.Float64("heat_p50", s.HeatP50),
		slog.Float64("heat_p90", s.HeatP90),
		slog.Float64("dye_mean", s.DyeMean),
		slog.Int("candles", s.Candles),
	)
}
