package messages

// GameState is the full authoritative snapshot of one room, broadcast
// to every member each tick. Clients render it verbatim.
type GameState struct {
	Timestamp int64  `json:"timestamp"`
	RoomID    string `json:"roomId"`
	Code      string `json:"code"`
	LevelID   string `json:"levelId"`
	Level     int    `json:"level"`
	Started   bool   `json:"started"`
	GameOver  bool   `json:"gameOver"`
	Won       bool   `json:"won"`
	// LevelAdvanced is set only on the snapshot for the tick on which
	// the room moved to NewLevelID.
	LevelAdvanced bool      `json:"levelAdvanced"`
	NewLevelID    string    `json:"newLevelId,omitempty"`
	Grid          GridState `json:"grid"`
	// DestroyedWalls lists the breakable tiles cleared on the current
	// level, so clients that derive the grid from the level id can
	// apply just the delta.
	DestroyedWalls [][2]int      `json:"destroyedWalls"`
	Players        []PlayerState `json:"players"`
	Bombs          []BombState   `json:"bombs"`
	Enemies        []EnemyState  `json:"enemies"`
}

// GridState is the tile map in row-major order. Tile codes follow
// types.TileType.
type GridState struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Tiles  [][]int `json:"tiles"`
}

// PlayerState is the wire view of one player.
type PlayerState struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Position    [2]int `json:"position"`
	Health      int    `json:"health"`
	Alive       bool   `json:"alive"`
	BombPower   int    `json:"bombPower"`
	BombCount   int    `json:"bombCount"`
	ReachedExit bool   `json:"reachedExit"`
}

// BombState is the wire view of one bomb.
type BombState struct {
	OwnerID    string   `json:"ownerId"`
	Position   [2]int   `json:"position"`
	Timer      float64  `json:"timer"`
	Exploded   bool     `json:"exploded"`
	BlastTiles [][2]int `json:"blastTiles"`
}

// EnemyState is the wire view of one enemy.
type EnemyState struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Position [2]int `json:"position"`
	Health   int    `json:"health"`
	Alive    bool   `json:"alive"`
}
