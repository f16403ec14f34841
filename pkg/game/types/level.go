package types

// LevelGrid is a fixed grid of typed tiles. It is immutable once generated
// except for Breakable tiles being cleared by explosions; those transitions
// are recorded separately on the room as a destroyed-wall set.
type LevelGrid struct {
	LevelID string
	Width   int
	Height  int
	Tiles   map[Position]TileType
}

// TileAt returns the tile type at the given coordinate.
// Out-of-bounds reads always resolve to Unbreakable (implicit border).
func (g *LevelGrid) TileAt(pos Position) TileType {
	if pos.X < 0 || pos.Y < 0 || pos.X >= g.Width || pos.Y >= g.Height {
		return TileUnbreakable
	}
	if t, ok := g.Tiles[pos]; ok {
		return t
	}
	return TileEmpty
}

// IsTraversable reports whether an actor may stand on the tile.
// Only Empty and Exit tiles are traversable.
func (g *LevelGrid) IsTraversable(pos Position) bool {
	t := g.TileAt(pos)
	return t == TileEmpty || t == TileExit
}

// ClearTile converts a Breakable tile to Empty. It reports whether
// the tile was actually a Breakable wall.
func (g *LevelGrid) ClearTile(pos Position) bool {
	if g.Tiles[pos] != TileBreakable {
		return false
	}
	g.Tiles[pos] = TileEmpty
	return true
}

// ExitPosition returns the position of the Exit tile.
func (g *LevelGrid) ExitPosition() (Position, bool) {
	for pos, t := range g.Tiles {
		if t == TileExit {
			return pos, true
		}
	}
	return Position{}, false
}
