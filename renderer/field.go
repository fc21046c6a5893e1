// Package renderer draws the simulation fields with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/convect/camera"
	"github.com/pthm-cable/convect/fluid"
)

// FieldRenderer uploads one field view per frame into a texture the size of
// the grid and draws it through the camera.
type FieldRenderer struct {
	tex    rl.Texture2D
	pixels []color.RGBA
	gridW  int
	gridH  int

	Scales Scales

	initialized bool
}

// NewFieldRenderer creates a renderer for a grid of the given size.
func NewFieldRenderer(gridW, gridH int) *FieldRenderer {
	return &FieldRenderer{
		gridW:  gridW,
		gridH:  gridH,
		pixels: make([]color.RGBA, gridW*gridH),
		Scales: DefaultScales(),
	}
}

// Init creates the texture (must be called after raylib window is created).
func (r *FieldRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.gridW, r.gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapClamp)
	rl.UnloadImage(img)
	r.initialized = true
}

// Update colours the selected view of the solver and uploads it.
func (r *FieldRenderer) Update(s *fluid.Solver, view View) {
	if !r.initialized {
		r.Init()
	}
	Colorize(r.pixels, view, s.Velocity(), s.Dye(), s.Pressure(), s.Heat(), s.Obstacles(), r.Scales)
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw renders the visible part of the grid to fill the viewport.
func (r *FieldRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}

	// Texture row 0 is the top of the grid
	minX, minY, maxX, maxY := cam.VisibleGridBounds()
	src := rl.Rectangle{
		X:      minX,
		Y:      float32(r.gridH) - maxY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
	dst := rl.Rectangle{X: 0, Y: 0, Width: cam.ViewportW, Height: cam.ViewportH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// DrawEmitters outlines heat sources so they can be found and removed.
func (r *FieldRenderer) DrawEmitters(cam *camera.Camera, emitters []fluid.Emitter, tint rl.Color) {
	s := cam.Scale()
	for _, e := range emitters {
		if !cam.IsVisible(e.X, e.Y, e.Radius) {
			continue
		}
		sx, sy := cam.GridToScreen(e.X, e.Y)
		rl.DrawCircleLines(int32(sx), int32(sy), e.Radius*s, tint)
		rl.DrawCircle(int32(sx), int32(sy), 2, tint)
	}
}

// Unload frees GPU resources.
func (r *FieldRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
