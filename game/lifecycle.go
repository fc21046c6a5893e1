package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/convect/telemetry"
)

// Restart reseeds every field and resets candles to the configured set.
func (g *Game) Restart() {
	g.solver.Restart()
	g.candles.Clear()
	g.placeConfiguredCandles()
	g.events.Reset()
	g.perf.Reset()
	g.lastStats = telemetry.FrameStats{}
	slog.Info("restart", "candles", g.candles.Count())
}

// TogglePause pauses or resumes stepping. Rendering and input continue.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool {
	return g.paused
}

// saveSnapshot writes the current state to the snapshot directory.
func (g *Game) saveSnapshot(label string) {
	if g.snapshotDir == "" {
		slog.Warn("snapshot requested without a snapshot directory")
		return
	}
	snap := telemetry.NewSnapshot(g.solver, g.candles)
	snap.Label = label
	path, err := telemetry.SaveSnapshot(snap, g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "frame", snap.State.Frame)
}

// restoreSnapshot loads state from a snapshot file.
func (g *Game) restoreSnapshot(path string) error {
	snap, err := telemetry.LoadSnapshot(path)
	if err != nil {
		return err
	}
	if err := snap.Apply(g.solver, g.candles); err != nil {
		return fmt.Errorf("applying snapshot %s: %w", path, err)
	}
	slog.Info("snapshot restored", "path", path, "frame", snap.State.Frame, "candles", g.candles.Count())
	return nil
}

// Unload releases the solver workers, output files and GPU resources.
func (g *Game) Unload() {
	if g.field != nil {
		g.field.Unload()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.output = nil
	g.solver.Close()
}
