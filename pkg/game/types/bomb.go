package types

// Bomb is an armed or exploding bomb on the grid.
//
// Lifecycle: Armed (Timer counts down) -> Exploded (BlastTiles computed and
// damage applied exactly once, FadeTimer starts) -> removed when FadeTimer
// elapses.
type Bomb struct {
	OwnerID    string
	Position   Position
	Timer      float64
	Exploded   bool
	FadeTimer  float64
	BlastTiles []Position
}

// IsLive reports whether the bomb is armed and blocks movement.
func (b *Bomb) IsLive() bool {
	return !b.Exploded
}

// InBlast reports whether the position is covered by this bomb's blast.
func (b *Bomb) InBlast(pos Position) bool {
	for _, t := range b.BlastTiles {
		if t == pos {
			return true
		}
	}
	return false
}
