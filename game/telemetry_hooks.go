package game

import (
	"log/slog"

	"github.com/pthm-cable/convect/telemetry"
)

// flushTelemetry samples the fields at the end of each stats window.
func (g *Game) flushTelemetry() {
	frame := g.solver.Frame()
	window := uint64(g.cfg.Telemetry.StatsWindow)
	if frame == 0 || frame%window != 0 {
		return
	}

	stats := g.sampler.Sample(g.solver, g.candles.Count())
	g.lastStats = stats
	perfStats := g.perf.Stats()

	if g.logStats {
		slog.Info("fields", "stats", stats)
		perfStats.LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteFrame(stats); err != nil {
			slog.Error("failed to write frame stats", "error", err)
		}
		if err := g.output.WritePerf(perfStats, frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	for _, e := range g.events.Check(stats) {
		if g.logStats {
			e.LogEvent()
		}
		if g.output != nil {
			if err := g.output.WriteEvent(e); err != nil {
				slog.Error("failed to write event", "error", err)
			}
		}
		// Keep the state while it is still finite so it can be inspected
		if e.Type == telemetry.EventCFLExceeded {
			g.saveSnapshotIfEnabled(string(e.Type))
		}
	}
}

// saveSnapshotIfEnabled saves only when a snapshot directory is configured.
func (g *Game) saveSnapshotIfEnabled(label string) {
	if g.snapshotDir != "" {
		g.saveSnapshot(label)
	}
}
