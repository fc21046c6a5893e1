package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
)

// EventType identifies a notable change in the flow.
type EventType string

const (
	EventNonFinite       EventType = "non_finite"
	EventCFLExceeded     EventType = "cfl_exceeded"
	EventEnergySpike     EventType = "energy_spike"
	EventDivergenceSpike EventType = "divergence_spike"
	EventSettled         EventType = "settled"
)

// Event is a detected change, written to events.csv.
type Event struct {
	Type        EventType `csv:"type"`
	Frame       uint64    `csv:"frame"`
	Description string    `csv:"description"`
}

// LogEvent logs the event using slog.
func (e Event) LogEvent() {
	level := slog.LevelInfo
	if e.Type == EventNonFinite || e.Type == EventCFLExceeded {
		level = slog.LevelWarn
	}
	slog.Log(context.Background(), level, "event",
		"type", e.Type,
		"frame", e.Frame,
		"description", e.Description,
	)
}

// settledEnergy is the kinetic energy below which a moving flow counts as at rest.
const settledEnergy = 1e-6

// EventDetector compares each stats window against a rolling history.
type EventDetector struct {
	history     []FrameStats
	historyIdx  int
	historyFull bool
	historySize int

	cflLimit float64
	cflFired bool
	nanFired bool
	moving   bool
}

// NewEventDetector creates a detector with the given history size. cflLimit
// is the Courant number above which the advection step is flagged.
func NewEventDetector(historySize int, cflLimit float64) *EventDetector {
	if historySize < 1 {
		historySize = 10
	}
	return &EventDetector{
		history:     make([]FrameStats, historySize),
		historySize: historySize,
		cflLimit:    cflLimit,
	}
}

// Check analyzes the latest stats and returns any triggered events.
func (ed *EventDetector) Check(stats FrameStats) []Event {
	var events []Event

	if !stats.Finite() {
		// Nothing useful can be compared against a blown-up state
		if !ed.nanFired {
			ed.nanFired = true
			events = append(events, Event{
				Type:        EventNonFinite,
				Frame:       stats.Frame,
				Description: "field statistics are no longer finite; the time step is unstable",
			})
		}
		return events
	}

	if e := ed.checkCFL(stats); e != nil {
		events = append(events, *e)
	}
	if e := ed.checkEnergySpike(stats); e != nil {
		events = append(events, *e)
	}
	if e := ed.checkDivergenceSpike(stats); e != nil {
		events = append(events, *e)
	}
	if e := ed.checkSettled(stats); e != nil {
		events = append(events, *e)
	}

	ed.addToHistory(stats)
	return events
}

// Reset forgets the history, as after a restart.
func (ed *EventDetector) Reset() {
	ed.historyIdx = 0
	ed.historyFull = false
	ed.cflFired = false
	ed.nanFired = false
	ed.moving = false
}

func (ed *EventDetector) addToHistory(stats FrameStats) {
	ed.history[ed.historyIdx] = stats
	ed.historyIdx = (ed.historyIdx + 1) % ed.historySize
	if ed.historyIdx == 0 {
		ed.historyFull = true
	}
}

func (ed *EventDetector) getHistory() []FrameStats {
	if ed.historyFull {
		return ed.history
	}
	return ed.history[:ed.historyIdx]
}

func (ed *EventDetector) checkCFL(stats FrameStats) *Event {
	if ed.cflLimit <= 0 {
		return nil
	}
	// Fire once per excursion above the limit
	if stats.CFL <= ed.cflLimit {
		ed.cflFired = false
		return nil
	}
	if ed.cflFired {
		return nil
	}
	ed.cflFired = true
	return &Event{
		Type:        EventCFLExceeded,
		Frame:       stats.Frame,
		Description: fmt.Sprintf("CFL number %.2f exceeds %.2f", stats.CFL, ed.cflLimit),
	}
}

func (ed *EventDetector) checkEnergySpike(stats FrameStats) *Event {
	history := ed.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.KineticEnergy
	}
	avg := total / float64(len(history))
	if avg <= settledEnergy {
		return nil
	}

	if stats.KineticEnergy > avg*4 {
		return &Event{
			Type:        EventEnergySpike,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("Kinetic energy %.3g is %.1fx average (%.3g)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
		}
	}
	return nil
}

func (ed *EventDetector) checkDivergenceSpike(stats FrameStats) *Event {
	history := ed.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.MeanAbsDiv
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.MeanAbsDiv > avg*10 && stats.MeanAbsDiv > 1e-4 {
		return &Event{
			Type:        EventDivergenceSpike,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("Mean |div| %.3g is %.1fx average (%.3g)", stats.MeanAbsDiv, stats.MeanAbsDiv/avg, avg),
		}
	}
	return nil
}

func (ed *EventDetector) checkSettled(stats FrameStats) *Event {
	if stats.KineticEnergy > settledEnergy {
		ed.moving = true
		return nil
	}
	if !ed.moving {
		return nil
	}
	ed.moving = false
	return &Event{
		Type:        EventSettled,
		Frame:       stats.Frame,
		Description: fmt.Sprintf("Flow came to rest (kinetic energy %.3g)", math.Max(stats.KineticEnergy, 0)),
	}
}
