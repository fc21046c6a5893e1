package fluid

import (
	"math"

	"gonum.org/v1/gonum/blas/blas32"
)

// MeanAbsDivergence returns the mean |∇·v| of the current velocity over fluid
// cells. It overwrites the divergence scratch buffer.
func (s *Solver) MeanAbsDivergence() float32 {
	st := s.store
	divergence(s.pool, st.Divergence, st.Velocity.Current(), s.params.DX)
	return meanAbsMasked(st.Divergence, st.Obstacles, st.diag)
}

// KineticEnergy returns ½Σ|v|² over the grid.
func (s *Solver) KineticEnergy() float32 {
	v := s.store.Velocity.Current()
	vec := blas32.Vector{N: len(v.Data), Inc: 1, Data: v.Data}
	return 0.5 * blas32.Dot(vec, vec)
}

// MaxSpeed returns the largest velocity magnitude on the grid.
func (s *Solver) MaxSpeed() float32 {
	v := s.store.Velocity.Current()
	var best float32
	for i := 0; i < len(v.Data); i += 2 {
		sq := v.Data[i]*v.Data[i] + v.Data[i+1]*v.Data[i+1]
		if sq > best {
			best = sq
		}
	}
	return float32(math.Sqrt(float64(best)))
}

// FluidCells returns the number of non-solid cells.
func (s *Solver) FluidCells() int {
	n := 0
	for _, o := range s.store.Obstacles.Data {
		if o <= 0.5 {
			n++
		}
	}
	return n
}

// meanAbsMasked averages |f| over cells where mask marks fluid, using scratch
// (len W*H) for the masked copy.
func meanAbsMasked(f, mask Field, scratch []float32) float32 {
	n := 0
	for i, o := range mask.Data {
		if o > 0.5 {
			scratch[i] = 0
			continue
		}
		scratch[i] = f.Data[i]
		n++
	}
	if n == 0 {
		return 0
	}
	vec := blas32.Vector{N: len(scratch), Inc: 1, Data: scratch}
	return blas32.Asum(vec) / float32(n)
}
