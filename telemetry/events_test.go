package telemetry

import (
	"math"
	"testing"
)

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}

func TestEventDetector_EnergySpike(t *testing.T) {
	ed := NewEventDetector(10, 0)

	for i := 0; i < 5; i++ {
		ed.Check(FrameStats{Frame: uint64(i * 50), KineticEnergy: 1.0})
	}

	events := ed.Check(FrameStats{Frame: 300, KineticEnergy: 10})
	if !hasEvent(events, EventEnergySpike) {
		t.Error("expected energy_spike event")
	}
}

func TestEventDetector_NoSpikeWithoutHistory(t *testing.T) {
	ed := NewEventDetector(10, 0)
	ed.Check(FrameStats{KineticEnergy: 1})

	if events := ed.Check(FrameStats{KineticEnergy: 100}); hasEvent(events, EventEnergySpike) {
		t.Error("spike needs at least 3 windows of history")
	}
}

func TestEventDetector_CFLFiresOncePerExcursion(t *testing.T) {
	ed := NewEventDetector(10, 1.0)

	if !hasEvent(ed.Check(FrameStats{CFL: 1.5, KineticEnergy: 1}), EventCFLExceeded) {
		t.Fatal("expected cfl_exceeded event")
	}
	if hasEvent(ed.Check(FrameStats{CFL: 2.0, KineticEnergy: 1}), EventCFLExceeded) {
		t.Error("cfl event should not repeat while still above the limit")
	}
	ed.Check(FrameStats{CFL: 0.5, KineticEnergy: 1})
	if !hasEvent(ed.Check(FrameStats{CFL: 1.2, KineticEnergy: 1}), EventCFLExceeded) {
		t.Error("expected cfl event after dropping below and rising again")
	}
}

func TestEventDetector_NonFinite(t *testing.T) {
	ed := NewEventDetector(10, 1.0)

	events := ed.Check(FrameStats{Frame: 7, KineticEnergy: math.Inf(1)})
	if !hasEvent(events, EventNonFinite) {
		t.Fatal("expected non_finite event")
	}
	if len(ed.Check(FrameStats{MaxSpeed: math.NaN()})) != 0 {
		t.Error("non_finite should be reported once")
	}
}

func TestEventDetector_Settled(t *testing.T) {
	ed := NewEventDetector(10, 0)

	if hasEvent(ed.Check(FrameStats{KineticEnergy: 0}), EventSettled) {
		t.Error("a flow that never moved should not report settling")
	}
	ed.Check(FrameStats{KineticEnergy: 0.5})
	if !hasEvent(ed.Check(FrameStats{KineticEnergy: 0}), EventSettled) {
		t.Error("expected settled event once motion stops")
	}
}

func TestEventDetector_Reset(t *testing.T) {
	ed := NewEventDetector(4, 0)
	for i := 0; i < 4; i++ {
		ed.Check(FrameStats{KineticEnergy: 1})
	}
	ed.Reset()

	if hasEvent(ed.Check(FrameStats{KineticEnergy: 50}), EventEnergySpike) {
		t.Error("history should be empty after reset")
	}
}
