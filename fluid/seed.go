package fluid

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// VelocityPreset selects the initial velocity field.
type VelocityPreset string

const (
	VelocityZero  VelocityPreset = "zero"
	VelocitySwirl VelocityPreset = "swirl"
	VelocityPlank VelocityPreset = "plank"
)

// ObstaclePreset selects the obstacle geometry.
type ObstaclePreset string

const (
	// ObstaclesWalls is a border band plus a horizontal wall with three doorways.
	ObstaclesWalls ObstaclePreset = "walls"
	// ObstaclesWallsDiscs adds two solid discs to ObstaclesWalls.
	ObstaclesWallsDiscs ObstaclePreset = "walls_discs"
	// ObstaclesOpen has no solid cells.
	ObstaclesOpen ObstaclePreset = "open"
)

// HeatSource is a disc of constant heat in normalised coordinates.
type HeatSource struct {
	S, T   float32
	Radius float32
	Value  float32
}

// SeedParams describes the t=0 state.
type SeedParams struct {
	NoiseZoom   float32
	NoiseSeed   int64
	Velocity    VelocityPreset
	Obstacles   ObstaclePreset
	HeatSources []HeatSource
}

// DefaultSeed returns the reference initial conditions: a cold disc near the
// top left and a hot disc near the bottom centre.
func DefaultSeed() SeedParams {
	return SeedParams{
		NoiseZoom: 4.0,
		Velocity:  VelocityZero,
		Obstacles: ObstaclesWalls,
		HeatSources: []HeatSource{
			{S: 0.2, T: 0.8, Radius: 0.08, Value: -5},
			{S: 0.5, T: 0.2, Radius: 0.08, Value: 5},
		},
	}
}

func (sp SeedParams) validate() error {
	switch sp.Velocity {
	case VelocityZero, VelocitySwirl, VelocityPlank:
	default:
		return fmt.Errorf("%w: unknown velocity preset %q", ErrInvalidParams, sp.Velocity)
	}
	switch sp.Obstacles {
	case ObstaclesWalls, ObstaclesWallsDiscs, ObstaclesOpen:
	default:
		return fmt.Errorf("%w: unknown obstacle preset %q", ErrInvalidParams, sp.Obstacles)
	}
	return nil
}

// seed writes the initial state into both buffers of every field.
func (st *Store) seed(sp SeedParams) {
	noise := opensimplex.New(sp.NoiseSeed)

	vel := st.Velocity.Target()
	dye := st.Dye.Target()
	heat := st.Heat.Target()

	for y := 0; y < st.H; y++ {
		t := float32(y) / float32(st.H)
		for x := 0; x < st.W; x++ {
			s := float32(x) / float32(st.W)

			d := float32(noise.Eval2(float64(s*sp.NoiseZoom), float64(t*sp.NoiseZoom)))
			i := dye.Index(x, y)
			dye.Data[i] = d
			dye.Data[i+1] = d
			dye.Data[i+2] = d

			vx, vy := SeedVelocity(sp.Velocity, s, t)
			j := vel.Index(x, y)
			vel.Data[j] = vx
			vel.Data[j+1] = vy

			heat.Data[y*st.W+x] = SeedHeat(sp.HeatSources, s, t)

			var solid float32
			if SeedSolid(sp.Obstacles, s, t) {
				solid = 1
			}
			st.Obstacles.Data[y*st.W+x] = solid
		}
	}

	st.Velocity.fillBoth(vel)
	st.Dye.fillBoth(dye)
	st.Heat.fillBoth(heat)
	st.Pressure.buf[0].Fill(0)
	st.Pressure.buf[1].Fill(0)
	st.Divergence.Fill(0)
}

// SeedVelocity returns the initial velocity at normalised coordinates (s, t).
func SeedVelocity(preset VelocityPreset, s, t float32) (float32, float32) {
	switch preset {
	case VelocitySwirl:
		const cx, cy = 0.5, 0.5
		if dist(s, t, cx, cy) < 0.35 {
			return (t-cx)*3 + 1, -(s-cy)*3 + 1
		}
	case VelocityPlank:
		if inRange(s, 0.3, 0.5) && inRange(t, 0.2, 0.4) {
			return 0, (0.1 - abs32(t-0.3)) * 10
		}
		if inRange(s, 0.5, 0.7) && inRange(t, 0.6, 0.8) {
			return 0, -(0.1 - abs32(t-0.7)) * 10
		}
	}
	return 0, 0
}

// SeedHeat returns the initial heat at (s, t). The first source containing the
// point wins.
func SeedHeat(sources []HeatSource, s, t float32) float32 {
	for _, src := range sources {
		if dist(s, t, src.S, src.T) < src.Radius {
			return src.Value
		}
	}
	return 0
}

// SeedSolid reports whether (s, t) is inside an obstacle.
func SeedSolid(preset ObstaclePreset, s, t float32) bool {
	if preset == ObstaclesOpen {
		return false
	}

	const border = 0.03
	if s < border || s > 1-border || t < border || t > 1-border {
		return true
	}

	if t > 0.45 && t < 0.52 &&
		!inRange(s, 0.22, 0.24) &&
		!inRange(s, 0.50, 0.53) &&
		!inRange(s, 0.78, 0.80) {
		return true
	}

	if preset == ObstaclesWallsDiscs {
		if dist(s, t, 0.75, 0.66) < 0.2 || dist(s, t, 0.3, 0.2) < 0.03 {
			return true
		}
	}
	return false
}

func dist(ax, ay, bx, by float32) float32 {
	dx := ax - bx
	dy := ay - by
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

func inRange(v, lo, hi float32) bool {
	return v >= lo && v <= hi
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
