package main

import (
	"math"
	"sync"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/convect/config"
	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/systems"
	"github.com/pthm-cable/convect/telemetry"
)

// Divergence above this after projection counts as a failed run.
const divTolerance = 0.05

// FitnessEvaluator runs headless solvers and scores parameter vectors.
type FitnessEvaluator struct {
	params     *ParamVector
	steps      int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	lastPeakCFL float64 // worst seed from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, steps int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		steps:       steps,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// LastPeakCFL returns the largest CFL number seen in the most recent evaluation.
func (fe *FitnessEvaluator) LastPeakCFL() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastPeakCFL
}

// runResult holds the outcome of a single solver run.
type runResult struct {
	stableSteps int     // steps completed before the first failure (or steps)
	peakCFL     float64 // largest max speed * dt / dx seen
	final       telemetry.FrameStats
}

// Evaluate scores raw parameter values (lower = better). Runs that stay stable
// for every seed score -dt; any failure scores above zero, less the more steps
// survived.
func (fe *FitnessEvaluator) Evaluate(raw []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(raw, s)
		}(i, seed)
	}
	wg.Wait()

	dt := fe.params.Clamp(raw)[0]
	var worst float64 = math.Inf(-1)
	var peak float64
	for _, r := range results {
		if f := fe.computeFitness(r, dt); f > worst {
			worst = f
		}
		peak = math.Max(peak, r.peakCFL)
	}

	fe.mu.Lock()
	if worst < fe.bestFitness {
		fe.bestFitness = worst
	}
	fe.lastPeakCFL = peak
	fe.mu.Unlock()

	return worst
}

// runSimulation steps one solver seeded with the given noise seed until it
// fails or reaches the step budget.
func (fe *FitnessEvaluator) runSimulation(raw []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, raw)
	cfg.Seed.NoiseSeed = seed

	params, err := cfg.SolverParams()
	if err != nil {
		return runResult{}
	}
	sv, err := fluid.New(params, fluid.WithWorkers(1))
	if err != nil {
		return runResult{}
	}
	defer sv.Close()

	candles := systems.NewCandleSystem(ecs.NewWorld())
	for _, c := range cfg.Candles {
		candles.Add(
			float32(c.S)*float32(params.Width),
			float32(c.T)*float32(params.Height),
			float32(c.Rate), float32(c.Radius), c.Lifetime,
		)
	}

	sampler := telemetry.NewSampler()
	window := cfg.Telemetry.StatsWindow
	limit := float64(cfg.Derived.CFLLimit)
	scale := float64(params.DT) / float64(params.DX)

	var result runResult
	for step := 1; step <= fe.steps; step++ {
		candles.Update()
		sv.SetEmitters(candles.Emitters())
		sv.Step()

		cfl := float64(sv.MaxSpeed()) * scale
		result.peakCFL = math.Max(result.peakCFL, cfl)
		if math.IsNaN(cfl) || cfl > limit {
			return result
		}

		if step%window == 0 || step == fe.steps {
			result.final = sampler.Sample(sv, candles.Count())
			if !result.final.Finite() || result.final.MeanAbsDiv > divTolerance {
				return result
			}
		}
		result.stableSteps = step
	}
	return result
}

// copyConfig returns a copy of the base config that can be modified freely.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Seed.HeatSources = append([]config.HeatSourceConfig(nil), fe.baseConfig.Seed.HeatSources...)
	cfg.Candles = append([]config.CandlePlacement(nil), fe.baseConfig.Candles...)
	return &cfg
}

// computeFitness turns one run into a scalar (lower = better).
func (fe *FitnessEvaluator) computeFitness(r runResult, dt float64) float64 {
	if r.stableSteps < fe.steps {
		return 1 + float64(fe.steps-r.stableSteps)/float64(fe.steps)
	}
	// Among stable runs, a tighter projection breaks ties.
	return -dt * (1 - 0.1*clamp01(r.final.MeanAbsDiv/divTolerance))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
