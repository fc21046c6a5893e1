package fluid

import "math"

// Emitter injects heat at Rate per unit time inside Radius cells of (X, Y),
// falling off linearly with distance.
type Emitter struct {
	X, Y   float32
	Rate   float32
	Radius float32
}

// buoyancy reads vel and heat and writes both outputs. Velocity gains
// buoyancy*heat*dt on its vertical component; heat decays and receives the
// emitters' contribution.
func buoyancy(p *pool, velOut, heatOut, vel, heat Field, dt, buoy, decay float32, emitters []Emitter) {
	keep := 1 - decay*dt
	if keep < 0 {
		keep = 0
	}
	w := vel.W
	p.run(vel.H, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				h := heat.Data[i]

				velOut.Data[2*i] = vel.Data[2*i]
				velOut.Data[2*i+1] = vel.Data[2*i+1] + dt*buoy*h

				h *= keep
				for _, e := range emitters {
					if e.Radius <= 0 {
						continue
					}
					dx := float32(x) - e.X
					dy := float32(y) - e.Y
					d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
					if d < e.Radius {
						h += e.Rate * dt * (1 - d/e.Radius)
					}
				}
				heatOut.Data[i] = h
			}
		}
	})
}
