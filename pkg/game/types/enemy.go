package types

import "fmt"

// EnemyType is the closed set of enemy behavior variants.
type EnemyType int

const (
	EnemyStatic EnemyType = iota
	EnemyChasing
	EnemySmart
)

func (t EnemyType) String() string {
	switch t {
	case EnemyStatic:
		return "static"
	case EnemyChasing:
		return "chasing"
	case EnemySmart:
		return "smart"
	default:
		return "unknown"
	}
}

// ParseEnemyType parses an enemy type string.
func ParseEnemyType(s string) (EnemyType, error) {
	switch s {
	case "static":
		return EnemyStatic, nil
	case "chasing":
		return EnemyChasing, nil
	case "smart":
		return EnemySmart, nil
	default:
		return EnemyStatic, fmt.Errorf("unknown enemy type: %s", s)
	}
}

// Enemy is an AI-controlled occupant of a room.
type Enemy struct {
	ID            string
	Type          EnemyType
	Position      Position
	SpawnPosition Position
	Health        int
	Alive         bool
	// MoveElapsed accumulates tick deltas; the enemy attempts one step
	// when it reaches the type's move interval.
	MoveElapsed float64
}

// TakeDamage reduces health, marking the enemy dead at zero.
func (e *Enemy) TakeDamage(amount int) {
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.Alive = false
	}
}

// ContactState tracks a player's continuous contact with a single enemy.
// Contact with a different enemy resets the duration.
type ContactState struct {
	EnemyID  string
	Duration float64
	Cooldown float64
}
