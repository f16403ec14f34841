package types

import "fmt"

// Position is an integer tile coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position shifted by the given offset.
func (p Position) Add(off Position) Position {
	return Position{X: p.X + off.X, Y: p.Y + off.Y}
}

// ManhattanDistance returns the Manhattan distance between two positions.
func (p Position) ManhattanDistance(other Position) int {
	return abs(p.X-other.X) + abs(p.Y-other.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Direction is a unit movement direction.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionLeft
	DirectionRight
)

// CardinalOffsets lists the four unit steps in a fixed order.
var CardinalOffsets = []Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// ParseDirection parses a wire direction string.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirectionUp, nil
	case "down":
		return DirectionDown, nil
	case "left":
		return DirectionLeft, nil
	case "right":
		return DirectionRight, nil
	default:
		return DirectionUp, fmt.Errorf("unknown direction: %s", s)
	}
}

// Offset returns the unit step for the direction.
func (d Direction) Offset() Position {
	switch d {
	case DirectionUp:
		return Position{X: 0, Y: -1}
	case DirectionDown:
		return Position{X: 0, Y: 1}
	case DirectionLeft:
		return Position{X: -1, Y: 0}
	default:
		return Position{X: 1, Y: 0}
	}
}

// TileType represents the type of a cell on the level grid.
type TileType int

const (
	TileEmpty TileType = iota
	TileUnbreakable
	TileBreakable
	TileHard
	TileExit
)

func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileUnbreakable:
		return "unbreakable"
	case TileBreakable:
		return "breakable"
	case TileHard:
		return "hard"
	case TileExit:
		return "exit"
	default:
		return "unknown"
	}
}

// RoomStatus represents the lifecycle state of a room.
type RoomStatus int

const (
	RoomStatusWaiting RoomStatus = iota
	RoomStatusStarted
)
