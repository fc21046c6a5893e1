package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/convect/fluid"
	"github.com/pthm-cable/convect/ui"
)

var (
	candleTint  = rl.Color{R: 255, G: 200, B: 90, A: 200}
	pointerTint = rl.Color{R: 255, G: 255, B: 255, A: 140}
)

const controlsLegend = "[Space] Pause  [R] Restart  [S] Stats  [1-5/V] View  [LMB] Candle  [RMB] Remove  [K] Snapshot  [C] Controls  [N] Step"

// Draw renders the current view, overlays and UI.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	g.field.Update(g.solver, g.view)
	g.field.Draw(g.camera)

	g.field.DrawEmitters(g.camera, g.candles.Emitters(), candleTint)
	if p, ok := g.solver.Pointer(); ok {
		g.field.DrawEmitters(g.camera, []fluid.Emitter{p}, pointerTint)
	}

	g.hud.Draw(ui.HUDData{
		Title:   "Convect",
		Frame:   g.solver.Frame(),
		View:    g.view.String(),
		Candles: g.candles.Count(),
		Paused:  g.paused,
	})

	stats := g.perf.Stats()
	g.statsPanel.Draw(ui.StatsPanelData{
		FPS:   stats.FPS,
		UPS:   g.ups,
		Perf:  stats,
		Field: g.lastStats,
	})

	w, h := int32(g.screenWidth), int32(g.screenHeight)
	if g.controls.IsVisible() {
		g.applyControls(g.controls.Draw(w, h, g.paused, &g.candleSettings))
	} else {
		g.hud.DrawControls(h, controlsLegend)
	}

	rl.EndDrawing()
}

// applyControls handles control strip buttons.
func (g *Game) applyControls(a ui.ControlActions) {
	if !a.Any() {
		return
	}
	if a.TogglePause {
		g.TogglePause()
	}
	if a.Restart {
		g.Restart()
	}
	if a.NextView {
		g.view = g.view.Next()
	}
	if a.Snapshot {
		g.saveSnapshot("manual")
	}
	if a.ToggleStats {
		g.statsPanel.Toggle()
	}
}
