package components

// Position is a location in grid coordinates (x right, y up, cell centres at integers).
type Position struct {
	X, Y float32
}
