package renderer

import (
	"image/color"
	"math"

	"github.com/pthm-cable/convect/fluid"
)

// View selects which field is drawn.
type View int

const (
	ViewDye View = iota
	ViewVelocity
	ViewPressure
	ViewHeat
	ViewComposite
	viewCount
)

// String returns the display name for a View.
func (v View) String() string {
	names := ViewNames()
	if v >= 0 && int(v) < len(names) {
		return names[v]
	}
	return "Unknown"
}

// ViewNames returns the display names for all views.
// The order matches the View constants.
func ViewNames() []string {
	return []string{"Dye", "Velocity", "Pressure", "Heat", "Composite"}
}

// Next returns the view after v, wrapping around.
func (v View) Next() View {
	return (v + 1) % viewCount
}

// SolidColor is drawn for obstacle cells in every view.
var SolidColor = color.RGBA{R: 38, G: 40, B: 48, A: 255}

// Scales normalises field values before colour mapping.
type Scales struct {
	Speed float32 // velocity magnitude drawn at full brightness
	Heat  float32 // |heat| drawn at full saturation
}

// DefaultScales suits the default scene.
func DefaultScales() Scales {
	return Scales{Speed: 0.5, Heat: 5}
}

// Colorize writes one pixel per cell into dst (len W*H). Row 0 of dst is the
// top of the grid, so the image can be uploaded without flipping.
func Colorize(dst []color.RGBA, view View, vel, dye, pres, heat, obstacles fluid.Field, sc Scales) {
	w, h := obstacles.W, obstacles.H

	var presScale float32
	if view == ViewPressure {
		presScale = maxAbs(pres.Data)
	}

	for y := 0; y < h; y++ {
		row := (h - 1 - y) * w
		for x := 0; x < w; x++ {
			i := y*w + x
			if obstacles.Data[i] > 0.5 {
				dst[row+x] = SolidColor
				continue
			}

			var c color.RGBA
			switch view {
			case ViewDye:
				c = dyeColor(dye.Data[i*3], dye.Data[i*3+1], dye.Data[i*3+2])
			case ViewVelocity:
				c = velocityColor(vel.Data[i*2], vel.Data[i*2+1], sc.Speed)
			case ViewPressure:
				c = diverging(pres.Data[i], presScale)
			case ViewHeat:
				c = diverging(heat.Data[i], sc.Heat)
			default:
				c = composite(dye.Data[i*3], dye.Data[i*3+1], dye.Data[i*3+2], heat.Data[i], sc.Heat)
			}
			dst[row+x] = c
		}
	}
}

// dyeColor maps each dye channel from [-1, 1] to [0, 255].
func dyeColor(r, g, b float32) color.RGBA {
	return color.RGBA{R: unit(0.5 + 0.5*r), G: unit(0.5 + 0.5*g), B: unit(0.5 + 0.5*b), A: 255}
}

// velocityColor maps direction to hue and magnitude to brightness.
func velocityColor(vx, vy, scale float32) color.RGBA {
	speed := float32(math.Hypot(float64(vx), float64(vy)))
	if speed == 0 || scale <= 0 {
		return color.RGBA{A: 255}
	}
	hue := float32(math.Atan2(float64(vy), float64(vx))/(2*math.Pi)) + 0.5
	return hsv(hue, 1, clamp01(speed/scale))
}

// diverging maps negative values to blue, zero to black, positive to red.
func diverging(v, scale float32) color.RGBA {
	if scale <= 0 {
		return color.RGBA{A: 255}
	}
	t := clamp01(float32(math.Abs(float64(v))) / scale)
	if v < 0 {
		return color.RGBA{R: unit(0.2 * t), G: unit(0.5 * t), B: unit(t), A: 255}
	}
	return color.RGBA{R: unit(t), G: unit(0.35 * t), B: unit(0.1 * t), A: 255}
}

// composite shades the dye and tints it with heat.
func composite(r, g, b, heat, scale float32) color.RGBA {
	base := dyeColor(r, g, b)
	if scale <= 0 {
		return base
	}
	t := clamp01(float32(math.Abs(float64(heat))) / scale)
	tint := diverging(heat, scale)
	return color.RGBA{
		R: mix(base.R, tint.R, t),
		G: mix(base.G, tint.G, t),
		B: mix(base.B, tint.B, t),
		A: 255,
	}
}

func hsv(h, s, v float32) color.RGBA {
	h = h - float32(math.Floor(float64(h)))
	i := int(h * 6)
	f := h*6 - float32(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float32
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return color.RGBA{R: unit(r), G: unit(g), B: unit(b), A: 255}
}

func maxAbs(data []float32) float32 {
	var m float32
	for _, v := range data {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}

func mix(a, b uint8, t float32) uint8 {
	return uint8(float32(a)*(1-t) + float32(b)*t)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// unit converts [0, 1] to a byte, clamping.
func unit(v float32) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
