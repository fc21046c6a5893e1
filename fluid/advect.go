package fluid

// advect writes src carried backward along vel for one time step into dst.
// vel must not alias dst.
func advect(p *pool, dst, src, vel Field, dt, dx float32) {
	k := dt / dx
	comp := dst.Comp
	p.run(dst.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < dst.W; x++ {
				v := vel.Index(x, y)
				px := float32(x) - k*vel.Data[v]
				py := float32(y) - k*vel.Data[v+1]

				o := dst.Index(x, y)
				for c := 0; c < comp; c++ {
					dst.Data[o+c] = src.Sample(px, py, c)
				}
			}
		}
	})
}
