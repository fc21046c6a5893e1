package fluid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when a solver cannot be built from the given parameters.
var ErrInvalidParams = errors.New("fluid: invalid parameters")

// ErrShapeMismatch is returned when restoring state recorded on a different grid.
var ErrShapeMismatch = errors.New("fluid: grid shape mismatch")

// Params holds the construction parameters of a solver. Grid size and DX are
// fixed for the lifetime of the instance.
//
// Stability is the caller's concern: an unstable DT/DX/viscosity combination
// grows without bound and is not detected here.
type Params struct {
	Width, Height int
	DX            float32
	DT            float32

	Viscosity       float32 // velocity diffusion coefficient
	HeatDiffusivity float32 // heat diffusion coefficient
	Buoyancy        float32 // upward acceleration per unit of heat
	HeatDecay       float32 // fraction of heat lost per unit time

	DiffuseIterations  int
	PressureIterations int

	// ReferencePressure is held in solid cells and outside the grid.
	ReferencePressure float32

	// Interactive candle placed by SetPointer.
	PointerRate   float32
	PointerRadius float32

	Seed SeedParams
}

// DefaultParams returns the parameters of the reference scene: a 256×256 grid
// with unit spacing and time step.
func DefaultParams() Params {
	return Params{
		Width:              256,
		Height:             256,
		DX:                 1.0,
		DT:                 1.0,
		Viscosity:          0.01,
		HeatDiffusivity:    0.01,
		Buoyancy:           0.01,
		HeatDecay:          0,
		DiffuseIterations:  60,
		PressureIterations: 200,
		ReferencePressure:  0,
		PointerRate:        0.5,
		PointerRadius:      6,
		Seed:               DefaultSeed(),
	}
}

// Validate checks the parameters and normalises iteration counts to even
// values so a solve ends on the buffer it started from.
func (p *Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: grid %dx%d must be positive", ErrInvalidParams, p.Width, p.Height)
	}
	if !positive(p.DX) {
		return fmt.Errorf("%w: dx %v must be positive", ErrInvalidParams, p.DX)
	}
	if !positive(p.DT) {
		return fmt.Errorf("%w: dt %v must be positive", ErrInvalidParams, p.DT)
	}
	if !nonNegative(p.Viscosity) {
		return fmt.Errorf("%w: viscosity %v must not be negative", ErrInvalidParams, p.Viscosity)
	}
	if !nonNegative(p.HeatDiffusivity) {
		return fmt.Errorf("%w: heat diffusivity %v must not be negative", ErrInvalidParams, p.HeatDiffusivity)
	}
	if !nonNegative(p.HeatDecay) {
		return fmt.Errorf("%w: heat decay %v must not be negative", ErrInvalidParams, p.HeatDecay)
	}
	if p.DiffuseIterations < 0 || p.PressureIterations < 0 {
		return fmt.Errorf("%w: iteration counts must not be negative", ErrInvalidParams)
	}
	if !nonNegative(p.PointerRadius) {
		return fmt.Errorf("%w: pointer radius %v must not be negative", ErrInvalidParams, p.PointerRadius)
	}
	if err := p.Seed.validate(); err != nil {
		return err
	}

	p.DiffuseIterations = (p.DiffuseIterations / 2) * 2
	p.PressureIterations = (p.PressureIterations / 2) * 2
	return nil
}

func positive(v float32) bool {
	return v > 0 && !math.IsInf(float64(v), 0)
}

func nonNegative(v float32) bool {
	return v >= 0 && !math.IsInf(float64(v), 0)
}
