package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlActions reports which controls were used this frame.
type ControlActions struct {
	TogglePause bool
	Restart     bool
	NextView    bool
	Snapshot    bool
	ToggleStats bool
}

// Any reports whether any button was pressed.
func (a ControlActions) Any() bool {
	return a.TogglePause || a.Restart || a.NextView || a.Snapshot || a.ToggleStats
}

// CandleSettings holds the parameters applied to newly placed candles.
type CandleSettings struct {
	Rate     float32
	Radius   float32
	Lifetime int // frames; 0 = permanent
}

// ControlStrip renders a raygui button row and candle sliders along the
// bottom of the screen.
type ControlStrip struct {
	renderer *Renderer
	visible  bool
}

// NewControlStrip creates a hidden control strip.
func NewControlStrip() *ControlStrip {
	return &ControlStrip{renderer: NewRenderer()}
}

// Toggle switches strip visibility.
func (c *ControlStrip) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the strip is shown.
func (c *ControlStrip) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the strip, so clicks on
// it are not passed to the grid.
func (c *ControlStrip) Contains(screenW, screenH int32, x, y float32) bool {
	if !c.visible {
		return false
	}
	top := float32(screenH - c.height())
	return y >= top && x >= 0 && x <= float32(screenW)
}

func (c *ControlStrip) height() int32 {
	return 2*c.renderer.Theme.Padding + 30 + 3*24
}

// Draw renders the strip and updates settings from the sliders.
func (c *ControlStrip) Draw(screenW, screenH int32, paused bool, settings *CandleSettings) ControlActions {
	var actions ControlActions
	if !c.visible {
		return actions
	}

	t := c.renderer.Theme
	h := c.height()
	top := screenH - h
	c.renderer.DrawPanel(0, top, screenW, h)

	x := float32(t.Padding)
	y := float32(top + t.Padding)
	const bw, bh, gap = 96, 26, 8

	label := "Pause"
	if paused {
		label = "Resume"
	}
	buttons := []struct {
		text string
		hit  *bool
	}{
		{label, &actions.TogglePause},
		{"Restart", &actions.Restart},
		{"Next view", &actions.NextView},
		{"Snapshot", &actions.Snapshot},
		{"Stats", &actions.ToggleStats},
	}
	for i, b := range buttons {
		r := rl.Rectangle{X: x + float32(i)*(bw+gap), Y: y, Width: bw, Height: bh}
		if gui.Button(r, b.text) {
			*b.hit = true
		}
	}
	y += bh + 8

	sliderW := float32(screenW) - 2*x - 180
	settings.Rate = c.slider(x, y, sliderW, "Candle rate", settings.Rate, 0, 2, "%.2f")
	y += 24
	settings.Radius = c.slider(x, y, sliderW, "Candle radius", settings.Radius, 1, 20, "%.1f")
	y += 24
	life := c.slider(x, y, sliderW, "Lifetime", float32(settings.Lifetime), 0, 3000, "%.0f")
	settings.Lifetime = int(life)

	return actions
}

func (c *ControlStrip) slider(x, y, w float32, label string, value, lo, hi float32, format string) float32 {
	t := c.renderer.Theme
	rl.DrawText(label, int32(x), int32(y+3), t.FontSize, t.LabelColor)
	v := gui.SliderBar(
		rl.Rectangle{X: x + 100, Y: y, Width: w, Height: 18},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, v), int32(x+110+w), int32(y+3), t.FontSize, t.ValueColor)
	return v
}
