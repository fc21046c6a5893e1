package fluid

// enforceBoundaries zeroes velocity and pins pressure to ref in solid cells.
// Fluid cells are copied through unchanged.
func enforceBoundaries(p *pool, velOut, presOut, vel, pres, obstacles Field, ref float32) {
	w := vel.W
	p.run(vel.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if obstacles.Data[i] > 0.5 {
					velOut.Data[2*i] = 0
					velOut.Data[2*i+1] = 0
					presOut.Data[i] = ref
					continue
				}
				velOut.Data[2*i] = vel.Data[2*i]
				velOut.Data[2*i+1] = vel.Data[2*i+1]
				presOut.Data[i] = pres.Data[i]
			}
		}
	})
}
