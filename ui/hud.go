package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/convect/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title   string
	Frame   uint64
	View    string
	Candles int
	Paused  bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)
	rl.DrawText(
		fmt.Sprintf("Frame: %d | View: %s | Candles: %d", data.Frame, data.View, data.Candles),
		10, 35, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 55, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-22, 12, rl.Gray)
}

// StatsPanelData holds the values shown by the stats panel.
type StatsPanelData struct {
	FPS   float64 // frames drawn per second
	UPS   float64 // solver steps per second
	Perf  telemetry.PerfStats
	Field telemetry.FrameStats
}

// StatsPanel shows draw and update rates with the solver's phase breakdown.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewStatsPanel creates a stats panel anchored at (x, y).
func NewStatsPanel(x, y, width int32) *StatsPanel {
	return &StatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *StatsPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Toggle switches panel visibility.
func (p *StatsPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible returns whether the panel is shown.
func (p *StatsPanel) IsVisible() bool {
	return p.visible
}

// Height returns the panel height for its fixed layout.
func (p *StatsPanel) Height() int32 {
	t := p.renderer.Theme
	rows := int32(2 + 6 + len(telemetry.Phases))
	return rows*t.LineHeight + 2*(t.LineHeight+2) + 3*t.Padding
}

// Draw renders the panel if visible.
func (p *StatsPanel) Draw(data StatsPanelData) {
	if !p.visible {
		return
	}

	r := p.renderer
	t := r.Theme
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := p.x + t.Padding
	y := p.y + t.Padding
	inner := p.width - 2*t.Padding

	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%.0f", data.FPS))
	y = r.DrawLabelValue(x, y, "UPS", fmt.Sprintf("%.0f", data.UPS))
	y += t.Padding / 2

	y = r.DrawSectionHeader(x, y, "Field")
	y = r.DrawLabelValue(x, y, "mean |div|", fmt.Sprintf("%.2e", data.Field.MeanAbsDiv))
	y = r.DrawLabelValue(x, y, "kinetic", fmt.Sprintf("%.3g", data.Field.KineticEnergy))
	y = r.DrawLabelValue(x, y, "max speed", fmt.Sprintf("%.3f", data.Field.MaxSpeed))

	cfl := fmt.Sprintf("%.2f", data.Field.CFL)
	if data.Field.CFL > 1 {
		rl.DrawText("cfl", x, y, t.FontSize, t.LabelColor)
		rl.DrawText(cfl, x+t.LabelWidth, y, t.FontSize, t.WarnColor)
		y += t.LineHeight
	} else {
		y = r.DrawLabelValue(x, y, "cfl", cfl)
	}
	y = r.DrawLabelValue(x, y, "heat", fmt.Sprintf("%.1f [%.2f, %.2f]", data.Field.HeatTotal, data.Field.HeatMin, data.Field.HeatMax))
	y = r.DrawLabelValue(x, y, "step", fmt.Sprintf("%d us", data.Perf.AvgTickDuration.Microseconds()))
	y += t.Padding / 2

	y = r.DrawSectionHeader(x, y, "Phases")
	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase, data.Perf.PhasePct[phase], inner)
	}
}
