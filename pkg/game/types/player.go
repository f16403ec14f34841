package types

// Player is a member of a room's roster.
type Player struct {
	ID          string
	Name        string
	ClientID    uint32
	Position    Position
	Health      int
	Ready       bool
	BombPower   int
	BombCount   int
	ReachedExit bool
}

// IsAlive reports whether the player still has health.
// A player at 0 health remains in the roster but is excluded from
// collision, blocking, and damage checks.
func (p *Player) IsAlive() bool {
	return p.Health > 0
}

// IsBlocking reports whether the player occupies its tile for
// collision purposes. Dead players and players who already exited
// are transparent.
func (p *Player) IsBlocking() bool {
	return p.IsAlive() && !p.ReachedExit
}

// TakeDamage reduces health, clamping at zero.
func (p *Player) TakeDamage(amount int) {
	p.Health -= amount
	if p.Health < 0 {
		p.Health = 0
	}
}
