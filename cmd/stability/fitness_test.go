package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/convect/config"
)

func newSearchConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Grid.Width = 32
	cfg.Grid.Height = 32
	cfg.Physics.DiffuseIterations = 4
	cfg.Physics.PressureIterations = 20
	cfg.Seed.VelocityPreset = "swirl"
	cfg.Parallel.Workers = 1
	return cfg
}

func TestParamVector_NormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	raw := []float64{1, 0.01, 0.05}
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestParamVector_ApplyClamps(t *testing.T) {
	pv := NewParamVector()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv.ApplyToConfig(cfg, []float64{100, -1, 0.05})

	got := pv.ExtractFromConfig(cfg)
	want := []float64{pv.Specs[0].Hi, 0, 0.05}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: got %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestRunSimulation_LargeStepExceedsCFL(t *testing.T) {
	cfg := newSearchConfig(t)
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{0}, cfg)

	r := fe.runSimulation([]float64{8, 0.01, 0.01}, 0)
	if r.stableSteps != 0 {
		t.Errorf("stableSteps = %d, want 0", r.stableSteps)
	}
	if r.peakCFL <= 1 {
		t.Errorf("peakCFL = %v, want > 1", r.peakCFL)
	}
}

func TestEvaluate_SmallStepScoresBetter(t *testing.T) {
	cfg := newSearchConfig(t)
	fe := NewFitnessEvaluator(NewParamVector(), 10, []int64{0, 1000}, cfg)

	small := fe.Evaluate([]float64{0.05, 0.01, 0.01})
	large := fe.Evaluate([]float64{8, 0.01, 0.01})
	if small >= large {
		t.Errorf("fitness(dt=0.05) = %v, want < fitness(dt=8) = %v", small, large)
	}
	if large != 2 {
		t.Errorf("fitness(dt=8) = %v, want 2", large)
	}
}

func TestCopyConfig_IsIndependent(t *testing.T) {
	cfg := newSearchConfig(t)
	fe := NewFitnessEvaluator(NewParamVector(), 1, nil, cfg)

	cp := fe.copyConfig()
	cp.Physics.DT = 3
	cp.Seed.HeatSources[0].Value = 99

	if cfg.Physics.DT == 3 {
		t.Error("copy shares physics with base")
	}
	if cfg.Seed.HeatSources[0].Value == 99 {
		t.Error("copy shares heat sources with base")
	}
}
