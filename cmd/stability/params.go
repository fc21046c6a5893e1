package main

import (
	"github.com/pthm-cable/convect/config"
)

// ParamSpec is one searchable config field. The search runs in the unit cube;
// Lo and Hi map it back to physical values.
type ParamSpec struct {
	Name   string
	Path   string // config key, for logs
	Lo, Hi float64

	get func(*config.Config) float64
	set func(*config.Config, float64)
}

func (s ParamSpec) toUnit(v float64) float64   { return (v - s.Lo) / (s.Hi - s.Lo) }
func (s ParamSpec) fromUnit(u float64) float64 { return s.Lo + u*(s.Hi-s.Lo) }

func (s ParamSpec) clamp(v float64) float64 {
	return min(max(v, s.Lo), s.Hi)
}

// ParamVector is the ordered search space.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector returns the time step and the two diffusion coefficients
// that damp it.
func NewParamVector() *ParamVector {
	return &ParamVector{Specs: []ParamSpec{
		{
			Name: "dt", Path: "physics.dt", Lo: 0.05, Hi: 8,
			get: func(c *config.Config) float64 { return c.Physics.DT },
			set: func(c *config.Config, v float64) { c.Physics.DT = v },
		},
		{
			Name: "viscosity", Path: "physics.viscosity", Lo: 0, Hi: 0.2,
			get: func(c *config.Config) float64 { return c.Physics.Viscosity },
			set: func(c *config.Config, v float64) { c.Physics.Viscosity = v },
		},
		{
			Name: "heat_diffusivity", Path: "physics.heat_diffusivity", Lo: 0, Hi: 0.2,
			get: func(c *config.Config) float64 { return c.Physics.HeatDiffusivity },
			set: func(c *config.Config, v float64) { c.Physics.HeatDiffusivity = v },
		},
	}}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int { return len(pv.Specs) }

func (pv *ParamVector) each(in []float64, fn func(ParamSpec, float64) float64) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = fn(s, in[i])
	}
	return out
}

// Normalize maps physical values into the unit cube.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	return pv.each(raw, ParamSpec.toUnit)
}

// Denormalize maps unit-cube values back to physical values. The result is
// not clamped; CMA-ES may step outside the cube.
func (pv *ParamVector) Denormalize(unit []float64) []float64 {
	return pv.each(unit, ParamSpec.fromUnit)
}

// Clamp limits every value to its bounds.
func (pv *ParamVector) Clamp(raw []float64) []float64 {
	return pv.each(raw, ParamSpec.clamp)
}

// ApplyToConfig writes clamped values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, raw []float64) {
	for i, v := range pv.Clamp(raw) {
		pv.Specs[i].set(cfg, v)
	}
}

// ExtractFromConfig reads the current values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	out := make([]float64, len(pv.Specs))
	for i, s := range pv.Specs {
		out[i] = s.get(cfg)
	}
	return out
}
