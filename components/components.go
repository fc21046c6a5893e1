// Package components defines ECS components for the simulation.
package components

// Candle is a heat emitter. Rate is heat per unit time at the centre, falling
// off linearly to zero at Radius (grid cells).
type Candle struct {
	Rate   float32
	Radius float32
}

// Lifetime counts down the frames left before a candle burns out.
// Permanent candles never expire.
type Lifetime struct {
	Remaining int32
	Permanent bool
}

// Expired reports whether the lifetime has run out.
func (l *Lifetime) Expired() bool {
	return !l.Permanent && l.Remaining <= 0
}
