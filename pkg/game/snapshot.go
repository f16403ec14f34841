package game

import (
	"sort"

	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/messages"
	"github.com/blastarena/server/pkg/metrics"
)

// broadcastSnapshots sends the full authoritative state of each started
// room to its members. Waiting rooms are covered by the lobby events;
// finished rooms keep broadcasting so clients can show the result
// screen.
func (gm *GameManager) broadcastSnapshots() {
	for _, room := range gm.rooms {
		if !room.Started() {
			continue
		}
		state := gm.buildGameState(room)
		gm.broadcastToRoom(room, messages.MessageTypeServerGameState, state)
		for range room.Players {
			metrics.RecordSnapshot()
		}
		// The advance flag rides exactly one snapshot.
		room.LevelAdvanced = false
	}
}

// buildGameState materializes the wire snapshot for a room.
func (gm *GameManager) buildGameState(room *types.Room) messages.GameState {
	newLevelID := ""
	if room.LevelAdvanced {
		newLevelID = room.LevelID
	}

	state := messages.GameState{
		Timestamp:      gm.timestamp,
		RoomID:         room.ID,
		Code:           room.Code,
		LevelID:        room.LevelID,
		Level:          levels.LevelNumber(room.LevelID),
		Started:        room.Started(),
		GameOver:       room.GameOver,
		Won:            room.Won,
		LevelAdvanced:  room.LevelAdvanced,
		NewLevelID:     newLevelID,
		Grid:           gridStateFrom(room.Grid),
		DestroyedWalls: destroyedWallsFrom(room),
		Players:        make([]messages.PlayerState, 0, len(room.Players)),
		Bombs:          make([]messages.BombState, 0, len(room.Bombs)),
		Enemies:        make([]messages.EnemyState, 0, len(room.Enemies)),
	}

	for _, p := range room.Players {
		state.Players = append(state.Players, playerStateFrom(p))
	}
	for _, b := range room.Bombs {
		blast := make([][2]int, 0, len(b.BlastTiles))
		for _, t := range b.BlastTiles {
			blast = append(blast, [2]int{t.X, t.Y})
		}
		state.Bombs = append(state.Bombs, messages.BombState{
			OwnerID:    b.OwnerID,
			Position:   [2]int{b.Position.X, b.Position.Y},
			Timer:      b.Timer,
			Exploded:   b.Exploded,
			BlastTiles: blast,
		})
	}
	for _, e := range room.Enemies {
		state.Enemies = append(state.Enemies, messages.EnemyState{
			ID:       e.ID,
			Type:     e.Type.String(),
			Position: [2]int{e.Position.X, e.Position.Y},
			Health:   e.Health,
			Alive:    e.Alive,
		})
	}

	return state
}

// destroyedWallsFrom lists the cleared breakable tiles in row-major
// order so snapshots are stable across ticks.
func destroyedWallsFrom(room *types.Room) [][2]int {
	walls := make([][2]int, 0, len(room.DestroyedWalls))
	for pos := range room.DestroyedWalls {
		walls = append(walls, [2]int{pos.X, pos.Y})
	}
	sort.Slice(walls, func(i, j int) bool {
		if walls[i][1] != walls[j][1] {
			return walls[i][1] < walls[j][1]
		}
		return walls[i][0] < walls[j][0]
	})
	return walls
}

func gridStateFrom(grid *types.LevelGrid) messages.GridState {
	tiles := make([][]int, grid.Height)
	for y := 0; y < grid.Height; y++ {
		row := make([]int, grid.Width)
		for x := 0; x < grid.Width; x++ {
			row[x] = int(grid.TileAt(types.Position{X: x, Y: y}))
		}
		tiles[y] = row
	}
	return messages.GridState{Width: grid.Width, Height: grid.Height, Tiles: tiles}
}

func playerStateFrom(p *types.Player) messages.PlayerState {
	return messages.PlayerState{
		ID:          p.ID,
		Name:        p.Name,
		Position:    [2]int{p.Position.X, p.Position.Y},
		Health:      p.Health,
		Alive:       p.IsAlive(),
		BombPower:   p.BombPower,
		BombCount:   p.BombCount,
		ReachedExit: p.ReachedExit,
	}
}

// broadcastToRoom sends one event to every member of a room.
func (gm *GameManager) broadcastToRoom(room *types.Room, msgType string, payload interface{}) {
	msg, err := messages.NewMessage(0, msgType, payload)
	if err != nil {
		log.Error("Failed to build %s message: %v", msgType, err)
		return
	}
	for _, p := range room.Players {
		gm.clientManager.SendTo(p.ClientID, msg)
	}
}

// sendToClient sends one event to a single client.
func (gm *GameManager) sendToClient(clientID uint32, msgType string, payload interface{}) {
	msg, err := messages.NewMessage(0, msgType, payload)
	if err != nil {
		log.Error("Failed to build %s message: %v", msgType, err)
		return
	}
	gm.clientManager.SendTo(clientID, msg)
}
