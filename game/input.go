package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/convect/renderer"
)

// candlePickRadius is how far (cells) a right click reaches to remove a candle.
const candlePickRadius = 8

// viewKeys maps number keys to views.
var viewKeys = []struct {
	key  int32
	view renderer.View
}{
	{rl.KeyOne, renderer.ViewDye},
	{rl.KeyTwo, renderer.ViewVelocity},
	{rl.KeyThree, renderer.ViewPressure},
	{rl.KeyFour, renderer.ViewHeat},
	{rl.KeyFive, renderer.ViewComposite},
}

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.Restart()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.statsPanel.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyK) {
		g.saveSnapshot("manual")
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyN) {
		g.step()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyV) {
		g.view = g.view.Next()
	}
	for _, vk := range viewKeys {
		if rl.IsKeyPressed(vk.key) {
			g.view = vk.view
		}
	}

	g.handleCameraInput()
	g.handlePointer()
}

// handlePointer moves the interactive candle with the mouse and places or
// removes candles on click.
func (g *Game) handlePointer() {
	mouse := rl.GetMousePosition()
	overUI := g.controls.Contains(int32(g.screenWidth), int32(g.screenHeight), mouse.X, mouse.Y)
	if overUI || !rl.IsCursorOnScreen() {
		g.solver.ClearPointer()
		return
	}

	gx, gy := g.camera.ScreenToGrid(mouse.X, mouse.Y)
	g.solver.SetPointer(gx, gy)

	if _, _, ok := g.camera.CellAt(mouse.X, mouse.Y); !ok {
		return
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		s := g.candleSettings
		g.candles.Add(gx, gy, s.Rate, s.Radius, s.Lifetime)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.candles.RemoveNearest(gx, gy, candlePickRadius)
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.statsPanel.SetPosition(int32(w)-250, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheelMove := rl.GetMouseWheelMove(); wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}

	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
