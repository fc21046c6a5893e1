package fluid

// edgeMode selects what a stencil sees past the grid edge.
type edgeMode int

const (
	// edgeClamp repeats the edge cell (zero flux).
	edgeClamp edgeMode = iota
	// edgeFixed reads a constant exterior value.
	edgeFixed
)

// jacobi performs one relaxation sweep of
//
//	dst = (xL + xR + xB + xT + alpha*b) * rBeta
//
// per component. x and b are read-only; dst must alias neither.
func jacobi(p *pool, dst, x, b Field, alpha, rBeta float32, edge edgeMode, exterior float32) {
	w, h, comp := dst.W, dst.H, dst.Comp
	p.run(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for xx := 0; xx < w; xx++ {
				o := dst.Index(xx, y)
				for c := 0; c < comp; c++ {
					var l, r, bt, t float32
					if edge == edgeFixed {
						l, r, bt, t = exterior, exterior, exterior, exterior
						if xx > 0 {
							l = x.Data[o-comp+c]
						}
						if xx < w-1 {
							r = x.Data[o+comp+c]
						}
						if y > 0 {
							bt = x.Data[o-w*comp+c]
						}
						if y < h-1 {
							t = x.Data[o+w*comp+c]
						}
					} else {
						l = x.clamped(xx-1, y, c)
						r = x.clamped(xx+1, y, c)
						bt = x.clamped(xx, y-1, c)
						t = x.clamped(xx, y+1, c)
					}
					dst.Data[o+c] = (l + r + bt + t + alpha*b.Data[o+c]) * rBeta
				}
			}
		}
	})
}

// diffuse relaxes (I - coeff*dt*∇²) x = x0 for iters sweeps, using the
// pair's current buffer as x0 and initial guess. rhs is scratch of the same
// shape. A zero coefficient leaves the field untouched.
func diffuse(p *pool, pair *Pair, rhs Field, coeff, dt, dx float32, iters int) {
	if coeff == 0 || iters == 0 {
		return
	}
	alpha := dx * dx / (coeff * dt)
	rBeta := 1 / (4 + alpha)

	rhs.CopyFrom(pair.Current())
	for i := 0; i < iters; i++ {
		jacobi(p, pair.Target(), pair.Current(), rhs, alpha, rBeta, edgeClamp, 0)
		pair.Swap()
	}
}
