package types

// Room is an isolated two-player match instance with its own board,
// bombs, and enemies. No shared mutable state crosses room boundaries.
// All mutation happens on the game loop goroutine.
type Room struct {
	ID      string
	Code    string
	Status  RoomStatus
	LevelID string

	// Players is ordered; the first entry is the room's creator.
	Players []*Player

	Grid           *LevelGrid
	DestroyedWalls map[Position]bool
	Bombs          []*Bomb
	Enemies        []*Enemy

	// GameOver latches once the match resolves; Won distinguishes
	// clearing the final level from a full-roster defeat. A finished
	// room keeps ticking snapshots until its members leave.
	GameOver bool
	Won      bool

	// LevelAdvanced marks the tick on which the room moved to a new
	// level. It is cleared after the snapshot that reports it.
	LevelAdvanced bool

	// Contacts tracks per-player continuous contact with enemies,
	// keyed by player id.
	Contacts map[string]*ContactState
}

// RoomCapacity is the maximum roster size of a room.
const RoomCapacity = 2

// NewRoom creates an empty room in the Waiting state.
func NewRoom(id, code, levelID string) *Room {
	return &Room{
		ID:             id,
		Code:           code,
		Status:         RoomStatusWaiting,
		LevelID:        levelID,
		DestroyedWalls: make(map[Position]bool),
		Contacts:       make(map[string]*ContactState),
	}
}

// IsFull reports whether the roster is at capacity.
func (r *Room) IsFull() bool {
	return len(r.Players) >= RoomCapacity
}

// Started reports whether the room's simulation is ticking.
func (r *Room) Started() bool {
	return r.Status == RoomStatusStarted
}

// AddPlayer appends a player to the roster. It fails if the room is full.
func (r *Room) AddPlayer(player *Player) bool {
	if r.IsFull() {
		return false
	}
	r.Players = append(r.Players, player)
	return true
}

// RemovePlayer removes a player by id, returning the removed player.
func (r *Room) RemovePlayer(playerID string) *Player {
	for i, p := range r.Players {
		if p.ID == playerID {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			delete(r.Contacts, playerID)
			return p
		}
	}
	return nil
}

// GetPlayer returns a player by id.
func (r *Room) GetPlayer(playerID string) *Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// GetPlayerByClient returns a player by connection identity.
func (r *Room) GetPlayerByClient(clientID uint32) *Player {
	for _, p := range r.Players {
		if p.ClientID == clientID {
			return p
		}
	}
	return nil
}

// Creator returns the room's original creator, or nil for an empty roster.
func (r *Room) Creator() *Player {
	if len(r.Players) == 0 {
		return nil
	}
	return r.Players[0]
}

// LiveBombAt returns the unexploded bomb on the tile, if any.
// Invariant: at most one live bomb per tile.
func (r *Room) LiveBombAt(pos Position) *Bomb {
	for _, b := range r.Bombs {
		if b.IsLive() && b.Position == pos {
			return b
		}
	}
	return nil
}

// LiveBombCount returns the number of unexploded bombs owned by a player.
func (r *Room) LiveBombCount(ownerID string) int {
	count := 0
	for _, b := range r.Bombs {
		if b.IsLive() && b.OwnerID == ownerID {
			count++
		}
	}
	return count
}

// LivingEnemyAt returns the living enemy on the tile, if any.
func (r *Room) LivingEnemyAt(pos Position) *Enemy {
	for _, e := range r.Enemies {
		if e.Alive && e.Position == pos {
			return e
		}
	}
	return nil
}

// BlockingPlayerAt returns the blocking player on the tile, excluding
// the given player id.
func (r *Room) BlockingPlayerAt(pos Position, excludeID string) *Player {
	for _, p := range r.Players {
		if p.ID != excludeID && p.IsBlocking() && p.Position == pos {
			return p
		}
	}
	return nil
}

// AlivePlayers returns the players with health remaining.
func (r *Room) AlivePlayers() []*Player {
	var alive []*Player
	for _, p := range r.Players {
		if p.IsAlive() {
			alive = append(alive, p)
		}
	}
	return alive
}
