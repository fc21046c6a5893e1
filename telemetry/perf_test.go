package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/convect/fluid"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCandles)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(fluid.PhasePressure)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhaseCandles]; !ok {
		t.Error("expected candles phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[fluid.PhasePressure]; !ok {
		t.Error("expected pressure phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseAdvect)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_Reset(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(fluid.PhaseAdvect)
	pc.EndTick()

	pc.Reset()
	if stats := pc.Stats(); stats.AvgTickDuration != 0 {
		t.Errorf("expected empty stats after reset, got %v", stats.AvgTickDuration)
	}
}

func TestPerfCollector_SolverPhases(t *testing.T) {
	p := fluid.DefaultParams()
	p.Width, p.Height = 16, 16
	p.DiffuseIterations, p.PressureIterations = 4, 4

	pc := NewPerfCollector(4)
	solver, err := fluid.New(p, fluid.WithWorkers(1), fluid.WithPhaseTimer(pc))
	if err != nil {
		t.Fatal(err)
	}
	defer solver.Close()

	pc.StartTick()
	solver.Step()
	pc.EndTick()

	stats := pc.Stats()
	for _, phase := range fluid.Phases {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected solver phase %q to be recorded", phase)
		}
	}

	row := stats.ToCSV(solver.Frame())
	if row.WindowEnd != 1 {
		t.Errorf("expected window end 1, got %d", row.WindowEnd)
	}
}

func TestPerfCollector_TickQuantiles(t *testing.T) {
	pc := NewPerfCollector(8)
	for i := 0; i < 8; i++ {
		pc.StartTick()
		pc.StartPhase(fluid.PhaseAdvect)
		time.Sleep(time.Duration(i*20) * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.P95TickDuration < stats.MinTickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("p95 %v outside [%v, %v]", stats.P95TickDuration, stats.MinTickDuration, stats.MaxTickDuration)
	}
	if stats.MaxTickDuration < 140*time.Microsecond {
		t.Errorf("expected max tick >= 140us, got %v", stats.MaxTickDuration)
	}
	if _, ok := stats.PhaseAvg[PhaseCandles]; ok {
		t.Error("untimed phase should not be reported")
	}
}
