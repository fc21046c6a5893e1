// Package systems contains ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/convect/components"
	"github.com/pthm-cable/convect/fluid"
)

// CandleSystem owns the heat candles placed in the scene and turns them into
// the emitter list consumed by the solver's heat pass.
type CandleSystem struct {
	world  *ecs.World
	mapper *ecs.Map3[components.Position, components.Candle, components.Lifetime]
	filter *ecs.Filter3[components.Position, components.Candle, components.Lifetime]

	emitters []fluid.Emitter
	count    int
}

// NewCandleSystem creates a candle system backed by the given world.
func NewCandleSystem(w *ecs.World) *CandleSystem {
	return &CandleSystem{
		world:  w,
		mapper: ecs.NewMap3[components.Position, components.Candle, components.Lifetime](w),
		filter: ecs.NewFilter3[components.Position, components.Candle, components.Lifetime](w),
	}
}

// Add places a candle at (x, y). A lifetime of zero or less makes it permanent.
func (s *CandleSystem) Add(x, y, rate, radius float32, lifetime int) ecs.Entity {
	pos := components.Position{X: x, Y: y}
	candle := components.Candle{Rate: rate, Radius: radius}
	life := components.Lifetime{Remaining: int32(lifetime), Permanent: lifetime <= 0}
	s.count++
	return s.mapper.NewEntity(&pos, &candle, &life)
}

// RemoveNearest removes the candle closest to (x, y) if it lies within maxDist.
// Returns true if a candle was removed.
func (s *CandleSystem) RemoveNearest(x, y, maxDist float32) bool {
	var closest ecs.Entity
	found := false
	best := maxDist * maxDist

	query := s.filter.Query()
	for query.Next() {
		pos, _, _ := query.Get()
		dx, dy := pos.X-x, pos.Y-y
		if d2 := dx*dx + dy*dy; d2 <= best {
			best = d2
			closest = query.Entity()
			found = true
		}
	}

	if !found {
		return false
	}
	s.world.RemoveEntity(closest)
	s.count--
	return true
}

// Update ages every candle by one frame and removes the ones that burned out.
// Returns the number removed.
func (s *CandleSystem) Update() int {
	// First pass: age and collect (world is locked during iteration)
	var expired []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		_, _, life := query.Get()
		if life.Permanent {
			continue
		}
		life.Remaining--
		if life.Expired() {
			expired = append(expired, query.Entity())
		}
	}

	// Second pass: remove
	for _, e := range expired {
		s.world.RemoveEntity(e)
	}
	s.count -= len(expired)
	return len(expired)
}

// Clear removes every candle.
func (s *CandleSystem) Clear() {
	var all []ecs.Entity
	query := s.filter.Query()
	for query.Next() {
		all = append(all, query.Entity())
	}
	for _, e := range all {
		s.world.RemoveEntity(e)
	}
	s.count = 0
}

// Count returns the number of live candles.
func (s *CandleSystem) Count() int {
	return s.count
}

// Emitters returns the current candles as solver emitters. The returned
// slice is reused on the next call.
func (s *CandleSystem) Emitters() []fluid.Emitter {
	s.emitters = s.emitters[:0]
	query := s.filter.Query()
	for query.Next() {
		pos, candle, _ := query.Get()
		s.emitters = append(s.emitters, fluid.Emitter{
			X:      pos.X,
			Y:      pos.Y,
			Rate:   candle.Rate,
			Radius: candle.Radius,
		})
	}
	return s.emitters
}

// CandleRecord is the serialisable form of a candle.
type CandleRecord struct {
	X         float32 `json:"x"`
	Y         float32 `json:"y"`
	Rate      float32 `json:"rate"`
	Radius    float32 `json:"radius"`
	Remaining int32   `json:"remaining"`
	Permanent bool    `json:"permanent"`
}

// Records returns every live candle.
func (s *CandleSystem) Records() []CandleRecord {
	var out []CandleRecord
	query := s.filter.Query()
	for query.Next() {
		pos, candle, life := query.Get()
		out = append(out, CandleRecord{
			X:         pos.X,
			Y:         pos.Y,
			Rate:      candle.Rate,
			Radius:    candle.Radius,
			Remaining: life.Remaining,
			Permanent: life.Permanent,
		})
	}
	return out
}

// Restore replaces every candle with the given records.
func (s *CandleSystem) Restore(records []CandleRecord) {
	s.Clear()
	for _, r := range records {
		pos := components.Position{X: r.X, Y: r.Y}
		candle := components.Candle{Rate: r.Rate, Radius: r.Radius}
		life := components.Lifetime{Remaining: r.Remaining, Permanent: r.Permanent}
		s.mapper.NewEntity(&pos, &candle, &life)
		s.count++
	}
}
