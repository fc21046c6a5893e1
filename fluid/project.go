package fluid

// divergence writes the central-difference divergence of vel into div.
func divergence(p *pool, div, vel Field, dx float32) {
	halfRdx := 0.5 / dx
	p.run(div.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < div.W; x++ {
				l := vel.clamped(x-1, y, 0)
				r := vel.clamped(x+1, y, 0)
				b := vel.clamped(x, y-1, 1)
				t := vel.clamped(x, y+1, 1)
				div.Data[y*div.W+x] = (r - l + t - b) * halfRdx
			}
		}
	})
}

// solvePressure relaxes ∇²p = div, warm-starting from the pair's current
// buffer. Cells past the grid edge hold ref.
func solvePressure(p *pool, pressure *Pair, div Field, dx float32, iters int, ref float32) {
	alpha := -dx * dx
	const rBeta = 0.25
	for i := 0; i < iters; i++ {
		jacobi(p, pressure.Target(), pressure.Current(), div, alpha, rBeta, edgeFixed, ref)
		pressure.Swap()
	}
}

// subtractGradient writes vel - ∇pressure into dst.
func subtractGradient(p *pool, dst, vel, pressure Field, dx float32) {
	halfRdx := 0.5 / dx
	p.run(dst.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < dst.W; x++ {
				l := pressure.clamped(x-1, y, 0)
				r := pressure.clamped(x+1, y, 0)
				b := pressure.clamped(x, y-1, 0)
				t := pressure.clamped(x, y+1, 0)
				i := dst.Index(x, y)
				dst.Data[i] = vel.Data[i] - halfRdx*(r-l)
				dst.Data[i+1] = vel.Data[i+1] - halfRdx*(t-b)
			}
		}
	})
}
