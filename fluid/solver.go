// Package fluid implements a stable-fluids solver on a fixed 2D grid: velocity,
// a three-channel dye tracer, pressure and a buoyant heat field, with an
// obstacle mask enforcing solid boundaries.
//
// Every stage is a pass that reads one buffer of a field and writes the other.
// Passes are split across worker goroutines by row band and run in strict
// sequence, so a pass never observes a partially written buffer.
package fluid

// Phase names reported to a PhaseTimer, in pipeline order.
const (
	PhaseAdvect     = "advect"
	PhaseDiffuse    = "diffuse"
	PhaseBuoyancy   = "buoyancy"
	PhaseDivergence = "divergence"
	PhasePressure   = "pressure"
	PhaseGradient   = "gradient"
	PhaseBoundary   = "boundary"
)

// Phases lists the pipeline phases in execution order.
var Phases = []string{
	PhaseAdvect, PhaseDiffuse, PhaseBuoyancy,
	PhaseDivergence, PhasePressure, PhaseGradient, PhaseBoundary,
}

// PhaseTimer receives a call at the start of each pipeline phase.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Option configures a Solver.
type Option func(*Solver)

// WithWorkers sets the number of pass workers. Zero uses GOMAXPROCS; one runs
// every pass on the calling goroutine.
func WithWorkers(n int) Option {
	return func(s *Solver) { s.workers = n }
}

// WithPhaseTimer reports phase boundaries to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(s *Solver) { s.timer = t }
}

// Solver advances the fluid state one time step per Step call. It is not
// safe for concurrent use.
type Solver struct {
	params Params
	store  *Store
	pool   *pool

	workers int
	timer   PhaseTimer

	pointer    Emitter
	hasPointer bool
	emitters   []Emitter
	active     []Emitter

	frame uint64
}

// New validates params, allocates every field and seeds the initial state.
func New(params Params, opts ...Option) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	s := &Solver{params: params}
	for _, opt := range opts {
		opt(s)
	}

	s.store = NewStore(params.Width, params.Height)
	s.store.seed(params.Seed)

	s.pool = newPool(s.workers)
	s.pool.start()

	return s, nil
}

// Close stops the worker goroutines. The solver must not be stepped afterwards.
func (s *Solver) Close() {
	s.pool.stop()
}

// Params returns the validated parameters.
func (s *Solver) Params() Params { return s.params }

// Frame returns the number of completed steps since construction or restart.
func (s *Solver) Frame() uint64 { return s.frame }

// Step runs the full pipeline once.
func (s *Solver) Step() {
	s.startPhase(PhaseAdvect)
	s.Advect()

	s.startPhase(PhaseDiffuse)
	s.Diffuse()

	s.startPhase(PhaseBuoyancy)
	s.Buoyancy()

	s.ComputePressure()

	s.startPhase(PhaseGradient)
	s.SubtractPressureGradient()

	s.startPhase(PhaseBoundary)
	s.EnforceBoundaries()

	s.frame++
}

// Restart reseeds every field without reallocating.
func (s *Solver) Restart() {
	s.store.seed(s.params.Seed)
	s.frame = 0
}

func (s *Solver) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

// Advect carries dye, heat and velocity along the pre-advection velocity.
func (s *Solver) Advect() {
	st := s.store
	dt, dx := s.params.DT, s.params.DX
	vel := st.Velocity.Current()

	advect(s.pool, st.Dye.Target(), st.Dye.Current(), vel, dt, dx)
	st.Dye.Swap()

	advect(s.pool, st.Heat.Target(), st.Heat.Current(), vel, dt, dx)
	st.Heat.Swap()

	advect(s.pool, st.Velocity.Target(), vel, vel, dt, dx)
	st.Velocity.Swap()
}

// Diffuse applies viscosity to velocity and diffusivity to heat.
func (s *Solver) Diffuse() {
	st := s.store
	p := s.params
	diffuse(s.pool, st.Velocity, st.rhsVec, p.Viscosity, p.DT, p.DX, p.DiffuseIterations)
	diffuse(s.pool, st.Heat, st.rhsScalar, p.HeatDiffusivity, p.DT, p.DX, p.DiffuseIterations)
}

// Buoyancy couples heat into vertical velocity and applies heat sources.
func (s *Solver) Buoyancy() {
	st := s.store
	p := s.params

	s.active = append(s.active[:0], s.emitters...)
	if s.hasPointer {
		s.active = append(s.active, s.pointer)
	}

	buoyancy(s.pool,
		st.Velocity.Target(), st.Heat.Target(),
		st.Velocity.Current(), st.Heat.Current(),
		p.DT, p.Buoyancy, p.HeatDecay, s.active)
	st.Velocity.Swap()
	st.Heat.Swap()
}

// ComputePressure writes the velocity divergence to the scratch buffer and
// relaxes the pressure Poisson equation against it.
func (s *Solver) ComputePressure() {
	st := s.store
	p := s.params

	s.startPhase(PhaseDivergence)
	divergence(s.pool, st.Divergence, st.Velocity.Current(), p.DX)

	s.startPhase(PhasePressure)
	solvePressure(s.pool, st.Pressure, st.Divergence, p.DX, p.PressureIterations, p.ReferencePressure)
}

// SubtractPressureGradient removes the pressure gradient from velocity.
func (s *Solver) SubtractPressureGradient() {
	st := s.store
	subtractGradient(s.pool, st.Velocity.Target(), st.Velocity.Current(), st.Pressure.Current(), s.params.DX)
	st.Velocity.Swap()
}

// EnforceBoundaries zeroes velocity and pins pressure inside obstacles.
func (s *Solver) EnforceBoundaries() {
	st := s.store
	enforceBoundaries(s.pool,
		st.Velocity.Target(), st.Pressure.Target(),
		st.Velocity.Current(), st.Pressure.Current(),
		st.Obstacles, s.params.ReferencePressure)
	st.Velocity.Swap()
	st.Pressure.Swap()
}

// SetPointer places the interactive candle at grid coordinates (x, y).
// Coordinates outside the grid remove it.
func (s *Solver) SetPointer(x, y float32) {
	if x < 0 || y < 0 || x >= float32(s.params.Width) || y >= float32(s.params.Height) {
		s.hasPointer = false
		return
	}
	s.pointer = Emitter{X: x, Y: y, Rate: s.params.PointerRate, Radius: s.params.PointerRadius}
	s.hasPointer = true
}

// ClearPointer removes the interactive candle.
func (s *Solver) ClearPointer() {
	s.hasPointer = false
}

// Pointer returns the interactive candle and whether it is active.
func (s *Solver) Pointer() (Emitter, bool) {
	return s.pointer, s.hasPointer
}

// SetEmitters replaces the additional heat sources applied each step.
func (s *Solver) SetEmitters(emitters []Emitter) {
	s.emitters = append(s.emitters[:0], emitters...)
}

// SetSolid marks cell (x, y) as obstacle or fluid. Out-of-range cells are ignored.
func (s *Solver) SetSolid(x, y int, solid bool) {
	if x < 0 || y < 0 || x >= s.params.Width || y >= s.params.Height {
		return
	}
	var v float32
	if solid {
		v = 1
	}
	s.store.Obstacles.Data[y*s.params.Width+x] = v
}

// Velocity returns the current velocity buffer (2 components). Read only.
func (s *Solver) Velocity() Field { return s.store.Velocity.Current() }

// Dye returns the current dye buffer (3 components). Read only.
func (s *Solver) Dye() Field { return s.store.Dye.Current() }

// Pressure returns the current pressure buffer. Read only.
func (s *Solver) Pressure() Field { return s.store.Pressure.Current() }

// Heat returns the current heat buffer. Read only.
func (s *Solver) Heat() Field { return s.store.Heat.Current() }

// Obstacles returns the obstacle mask. Read only.
func (s *Solver) Obstacles() Field { return s.store.Obstacles }

// Divergence returns the scratch divergence of the last pressure solve. Read only.
func (s *Solver) Divergence() Field { return s.store.Divergence }
