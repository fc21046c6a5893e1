package fluid

import "math"

// Field is a W×H grid holding Comp interleaved float32 components per cell.
// Cell (x, y) starts at Data[(y*W+x)*Comp]. y grows upward.
type Field struct {
	W, H int
	Comp int
	Data []float32
}

// NewField allocates a zeroed field.
func NewField(w, h, comp int) Field {
	return Field{W: w, H: h, Comp: comp, Data: make([]float32, w*h*comp)}
}

// Index returns the offset of the first component of cell (x, y).
func (f Field) Index(x, y int) int {
	return (y*f.W + x) * f.Comp
}

// At returns component c of cell (x, y).
func (f Field) At(x, y, c int) float32 {
	return f.Data[f.Index(x, y)+c]
}

// Set writes component c of cell (x, y).
func (f Field) Set(x, y, c int, v float32) {
	f.Data[f.Index(x, y)+c] = v
}

// Fill sets every component of every cell to v.
func (f Field) Fill(v float32) {
	for i := range f.Data {
		f.Data[i] = v
	}
}

// CopyFrom overwrites f with src. Shapes must match.
func (f Field) CopyFrom(src Field) {
	copy(f.Data, src.Data)
}

// clamped returns component c at (x, y) with coordinates clamped to the grid,
// the same behaviour as an edge-clamped texture fetch.
func (f Field) clamped(x, y, c int) float32 {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	return f.Data[(y*f.W+x)*f.Comp+c]
}

// Sample bilinearly interpolates component c at cell-space position (px, py),
// where integer coordinates are cell centres. Positions outside the grid are
// clamped to its extent.
func (f Field) Sample(px, py float32, c int) float32 {
	maxX := float32(f.W - 1)
	maxY := float32(f.H - 1)
	if px < 0 {
		px = 0
	} else if px > maxX {
		px = maxX
	}
	if py < 0 {
		py = 0
	} else if py > maxY {
		py = maxY
	}

	x0 := int(math.Floor(float64(px)))
	y0 := int(math.Floor(float64(py)))
	tx := px - float32(x0)
	ty := py - float32(y0)
	x1 := x0 + 1
	if x1 >= f.W {
		x1 = f.W - 1
	}
	y1 := y0 + 1
	if y1 >= f.H {
		y1 = f.H - 1
	}

	row0 := y0 * f.W
	row1 := y1 * f.W
	v00 := f.Data[(row0+x0)*f.Comp+c]
	v10 := f.Data[(row0+x1)*f.Comp+c]
	v01 := f.Data[(row1+x0)*f.Comp+c]
	v11 := f.Data[(row1+x1)*f.Comp+c]

	a := v00 + (v10-v00)*tx
	b := v01 + (v11-v01)*tx
	return a + (b-a)*ty
}

// Pair is a double-buffered field. Kernels read the fetch slot through
// Current and write the draw slot through Target, then call Swap.
type Pair struct {
	buf   [2]Field
	fetch int
}

func newPair(w, h, comp int) *Pair {
	return &Pair{buf: [2]Field{NewField(w, h, comp), NewField(w, h, comp)}}
}

// Current returns the fetch buffer.
func (p *Pair) Current() Field { return p.buf[p.fetch] }

// Target returns the draw buffer.
func (p *Pair) Target() Field { return p.buf[1-p.fetch] }

// Swap exchanges the fetch and draw roles.
func (p *Pair) Swap() { p.fetch = 1 - p.fetch }

// Parity reports which slot is currently the fetch buffer.
func (p *Pair) Parity() int { return p.fetch }

// fillBoth writes the same content to both slots.
func (p *Pair) fillBoth(src Field) {
	p.buf[0].CopyFrom(src)
	p.buf[1].CopyFrom(src)
}

// Store owns every field of the solver.
type Store struct {
	W, H int

	Velocity *Pair // 2 components
	Dye      *Pair // 3 colour channels
	Pressure *Pair
	Heat     *Pair

	Obstacles  Field // 1 = solid, 0 = fluid
	Divergence Field

	// right-hand sides of the diffusion solves
	rhsVec    Field
	rhsScalar Field
	// reduction scratch for diagnostics
	diag []float32
}

// NewStore allocates every buffer for a w×h grid.
func NewStore(w, h int) *Store {
	return &Store{
		W:          w,
		H:          h,
		Velocity:   newPair(w, h, 2),
		Dye:        newPair(w, h, 3),
		Pressure:   newPair(w, h, 1),
		Heat:       newPair(w, h, 1),
		Obstacles:  NewField(w, h, 1),
		Divergence: NewField(w, h, 1),
		rhsVec:     NewField(w, h, 2),
		rhsScalar:  NewField(w, h, 1),
		diag:       make([]float32, w*h),
	}
}

// Solid reports whether cell (x, y) is an obstacle.
func (s *Store) Solid(x, y int) bool {
	return s.Obstacles.Data[y*s.W+x] > 0.5
}
