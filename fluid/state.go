package fluid

import "fmt"

// State is a copy of every field, suitable for serialisation.
type State struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Frame     uint64    `json:"frame"`
	Velocity  []float32 `json:"velocity"`
	Dye       []float32 `json:"dye"`
	Pressure  []float32 `json:"pressure"`
	Heat      []float32 `json:"heat"`
	Obstacles []float32 `json:"obstacles"`
}

// Snapshot copies the current buffers.
func (s *Solver) Snapshot() State {
	st := s.store
	return State{
		Width:     st.W,
		Height:    st.H,
		Frame:     s.frame,
		Velocity:  cloneData(st.Velocity.Current()),
		Dye:       cloneData(st.Dye.Current()),
		Pressure:  cloneData(st.Pressure.Current()),
		Heat:      cloneData(st.Heat.Current()),
		Obstacles: cloneData(st.Obstacles),
	}
}

// Restore loads a snapshot taken on a grid of the same shape.
func (s *Solver) Restore(state State) error {
	st := s.store
	if state.Width != st.W || state.Height != st.H {
		return fmt.Errorf("%w: snapshot %dx%d, solver %dx%d",
			ErrShapeMismatch, state.Width, state.Height, st.W, st.H)
	}
	n := st.W * st.H
	if len(state.Velocity) != 2*n || len(state.Dye) != 3*n ||
		len(state.Pressure) != n || len(state.Heat) != n || len(state.Obstacles) != n {
		return fmt.Errorf("%w: buffer lengths do not match %dx%d", ErrShapeMismatch, st.W, st.H)
	}

	restorePair(st.Velocity, state.Velocity)
	restorePair(st.Dye, state.Dye)
	restorePair(st.Pressure, state.Pressure)
	restorePair(st.Heat, state.Heat)
	copy(st.Obstacles.Data, state.Obstacles)
	s.frame = state.Frame
	return nil
}

func cloneData(f Field) []float32 {
	out := make([]float32, len(f.Data))
	copy(out, f.Data)
	return out
}

func restorePair(p *Pair, data []float32) {
	copy(p.buf[0].Data, data)
	copy(p.buf[1].Data, data)
}
