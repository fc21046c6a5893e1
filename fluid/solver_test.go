package fluid

import (
	"errors"
	"math"
	"testing"
)

// openParams returns a small all-fluid scene with no heat and no motion.
func openParams(w, h int) Params {
	p := DefaultParams()
	p.Width = w
	p.Height = h
	p.Seed.Obstacles = ObstaclesOpen
	p.Seed.HeatSources = nil
	return p
}

func newTestSolver(t *testing.T, p Params, opts ...Option) *Solver {
	t.Helper()
	s, err := New(p, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Params)
	}{
		{"zero width", func(p *Params) { p.Width = 0 }},
		{"negative height", func(p *Params) { p.Height = -4 }},
		{"zero dx", func(p *Params) { p.DX = 0 }},
		{"negative dt", func(p *Params) { p.DT = -1 }},
		{"negative viscosity", func(p *Params) { p.Viscosity = -0.1 }},
		{"negative diffusivity", func(p *Params) { p.HeatDiffusivity = -0.1 }},
		{"negative iterations", func(p *Params) { p.PressureIterations = -2 }},
		{"unknown preset", func(p *Params) { p.Seed.Velocity = "vortex" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := openParams(8, 8)
			tc.modify(&p)
			s, err := New(p)
			if err == nil {
				s.Close()
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("expected ErrInvalidParams, got %v", err)
			}
		})
	}
}

func TestValidateRoundsIterationsToEven(t *testing.T) {
	p := openParams(8, 8)
	p.DiffuseIterations = 61
	p.PressureIterations = 199
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.DiffuseIterations != 60 || p.PressureIterations != 198 {
		t.Errorf("expected 60/198 iterations, got %d/%d", p.DiffuseIterations, p.PressureIterations)
	}
}

func TestBoundaryScenario(t *testing.T) {
	s := newTestSolver(t, openParams(4, 4), WithWorkers(1))
	s.store.Velocity.Current().Fill(0)
	vel := s.store.Velocity.Current()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			vel.Set(x, y, 0, 1)
		}
	}
	s.SetSolid(2, 2, true)

	s.EnforceBoundaries()

	out := s.Velocity()
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			vx, vy := out.At(x, y, 0), out.At(x, y, 1)
			if x == 2 && y == 2 {
				if vx != 0 || vy != 0 {
					t.Errorf("solid cell (2,2): expected (0,0), got (%v,%v)", vx, vy)
				}
				continue
			}
			if vx != 1 || vy != 0 {
				t.Errorf("fluid cell (%d,%d): expected (1,0), got (%v,%v)", x, y, vx, vy)
			}
		}
	}
}

func TestSolidCellsStayAtRest(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 48, 48
	p.DiffuseIterations = 10
	p.PressureIterations = 20
	s := newTestSolver(t, p)

	for frame := 0; frame < 5; frame++ {
		s.Step()
		vel := s.Velocity()
		for y := 0; y < p.Height; y++ {
			for x := 0; x < p.Width; x++ {
				if !s.store.Solid(x, y) {
					continue
				}
				if vel.At(x, y, 0) != 0 || vel.At(x, y, 1) != 0 {
					t.Fatalf("frame %d: solid cell (%d,%d) has velocity (%v,%v)",
						frame, x, y, vel.At(x, y, 0), vel.At(x, y, 1))
				}
			}
		}
	}
}

func TestDyeUnchangedWithoutVelocity(t *testing.T) {
	s := newTestSolver(t, openParams(16, 16))
	before := cloneData(s.Dye())

	for i := 0; i < 3; i++ {
		s.Step()
	}

	after := s.Dye().Data
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("dye changed at %d: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestStepPreservesBufferParity(t *testing.T) {
	s := newTestSolver(t, openParams(8, 8))
	st := s.store
	before := [4]int{st.Velocity.Parity(), st.Dye.Parity(), st.Pressure.Parity(), st.Heat.Parity()}

	s.Diffuse()
	s.ComputePressure()

	if st.Velocity.Parity() != before[0] || st.Heat.Parity() != before[3] {
		t.Errorf("diffusion changed parity: velocity %d->%d heat %d->%d",
			before[0], st.Velocity.Parity(), before[3], st.Heat.Parity())
	}
	if st.Pressure.Parity() != before[2] {
		t.Errorf("pressure solve changed parity: %d->%d", before[2], st.Pressure.Parity())
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 64, 64
	p.DiffuseIterations = 8
	p.PressureIterations = 16

	serial := newTestSolver(t, p, WithWorkers(1))
	parallel := newTestSolver(t, p, WithWorkers(4))
	serial.SetPointer(20, 20)
	parallel.SetPointer(20, 20)

	for i := 0; i < 3; i++ {
		serial.Step()
		parallel.Step()
	}

	pairs := []struct {
		name string
		a, b Field
	}{
		{"velocity", serial.Velocity(), parallel.Velocity()},
		{"heat", serial.Heat(), parallel.Heat()},
		{"pressure", serial.Pressure(), parallel.Pressure()},
		{"dye", serial.Dye(), parallel.Dye()},
	}
	for _, pr := range pairs {
		for i := range pr.a.Data {
			if pr.a.Data[i] != pr.b.Data[i] {
				t.Errorf("%s differs at %d: serial %v parallel %v", pr.name, i, pr.a.Data[i], pr.b.Data[i])
				break
			}
		}
	}
}

func TestRestartRestoresSeed(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 32, 32
	p.DiffuseIterations = 4
	p.PressureIterations = 4
	s := newTestSolver(t, p)
	seedHeat := cloneData(s.Heat())

	s.Step()
	s.Step()
	if s.Frame() != 2 {
		t.Fatalf("expected frame 2, got %d", s.Frame())
	}

	s.Restart()
	if s.Frame() != 0 {
		t.Errorf("expected frame 0 after restart, got %d", s.Frame())
	}
	for i, v := range s.Heat().Data {
		if v != seedHeat[i] {
			t.Fatalf("heat %d not reseeded: want %v got %v", i, seedHeat[i], v)
		}
	}
	for i, v := range s.Velocity().Data {
		if v != 0 {
			t.Fatalf("velocity %d not zero after restart: %v", i, v)
		}
	}
}

func TestHeatRises(t *testing.T) {
	p := openParams(32, 32)
	p.Seed.HeatSources = []HeatSource{{S: 0.5, T: 0.5, Radius: 0.1, Value: 5}}
	p.DiffuseIterations = 4
	p.PressureIterations = 40
	s := newTestSolver(t, p)

	s.Step()

	if vy := s.Velocity().At(16, 16, 1); vy <= 0 {
		t.Errorf("expected upward velocity above a hot source, got %v", vy)
	}
}

func TestPointerOutOfRangeIsIgnored(t *testing.T) {
	s := newTestSolver(t, openParams(8, 8))

	s.SetPointer(3, 4)
	if _, ok := s.Pointer(); !ok {
		t.Fatal("expected pointer to be active")
	}

	s.SetPointer(-1, 4)
	if _, ok := s.Pointer(); ok {
		t.Error("expected out-of-range pointer to be ignored")
	}

	s.SetPointer(3, 8)
	if _, ok := s.Pointer(); ok {
		t.Error("expected pointer at y=H to be ignored")
	}
}

func TestPointerInjectsHeat(t *testing.T) {
	p := openParams(16, 16)
	p.PointerRate = 1
	p.PointerRadius = 3
	s := newTestSolver(t, p)

	s.SetPointer(8, 8)
	s.Buoyancy()

	if h := s.Heat().At(8, 8, 0); math.Abs(float64(h-1)) > 1e-6 {
		t.Errorf("expected heat 1 at the pointer, got %v", h)
	}
	if h := s.Heat().At(0, 0, 0); h != 0 {
		t.Errorf("expected no heat far from the pointer, got %v", h)
	}
}

func TestEmittersFallOffLinearly(t *testing.T) {
	s := newTestSolver(t, openParams(16, 16))

	s.SetEmitters([]Emitter{{X: 4, Y: 4, Rate: 2, Radius: 2}})
	s.Buoyancy()

	heat := s.Heat()
	cases := []struct {
		x, y int
		want float32
	}{
		{4, 4, 2},
		{5, 4, 1},
		{6, 4, 0},
		{12, 12, 0},
	}
	for _, c := range cases {
		if got := heat.At(c.x, c.y, 0); math.Abs(float64(got-c.want)) > 1e-6 {
			t.Errorf("heat at (%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestSnapshotRestore(t *testing.T) {
	p := DefaultParams()
	p.Width, p.Height = 24, 24
	p.DiffuseIterations = 4
	p.PressureIterations = 8
	s := newTestSolver(t, p)
	s.Step()
	snap := s.Snapshot()

	s.Step()
	s.Step()
	if err := s.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if s.Frame() != snap.Frame {
		t.Errorf("expected frame %d, got %d", snap.Frame, s.Frame())
	}
	for i, v := range s.Heat().Data {
		if v != snap.Heat[i] {
			t.Fatalf("heat %d not restored", i)
		}
	}

	other := newTestSolver(t, openParams(8, 8))
	if err := other.Restore(snap); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}
