package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/messages"
)

const roomCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func (gm *GameManager) createRoom(clientID uint32, playerName string) (*types.Room, error) {
	if _, ok := gm.clientRooms[clientID]; ok {
		return nil, fmt.Errorf("already in a room")
	}

	room := types.NewRoom(uuid.NewString(), gm.generateRoomCode(), levels.FirstLevelID)
	if err := gm.loadLevel(room, levels.FirstLevelID); err != nil {
		return nil, err
	}

	player := gm.newPlayer(clientID, playerName, room)
	room.AddPlayer(player)

	gm.rooms[room.ID] = room
	gm.roomsByCode[room.Code] = room.ID
	gm.clientRooms[clientID] = room.ID
	gm.playerIDs[clientID] = player.ID

	log.Info("Room %s created by %s", room.Code, player.Name)
	gm.persistRoom(room)

	return room, nil
}

func (gm *GameManager) joinRoom(clientID uint32, code, playerName string) (*types.Room, error) {
	if _, ok := gm.clientRooms[clientID]; ok {
		return nil, fmt.Errorf("already in a room")
	}
	roomID, ok := gm.roomsByCode[code]
	if !ok {
		return nil, fmt.Errorf("room %s not found", code)
	}
	room := gm.rooms[roomID]
	if room.Started() {
		return nil, fmt.Errorf("room %s already started", code)
	}
	if room.IsFull() {
		return nil, fmt.Errorf("room %s is full", code)
	}

	player := gm.newPlayer(clientID, playerName, room)
	room.AddPlayer(player)
	gm.clientRooms[clientID] = room.ID
	gm.playerIDs[clientID] = player.ID

	log.Info("Player %s joined room %s", player.Name, room.Code)
	gm.broadcastToRoom(room, messages.MessageTypeServerPlayerJoined, messages.ServerPlayerJoined{
		RoomID:      room.ID,
		PlayerID:    player.ID,
		PlayerCount: len(room.Players),
		Player:      playerStateFrom(player),
	})

	// A full roster starts the match immediately.
	if room.IsFull() {
		gm.startRoom(room)
	}
	gm.persistRoom(room)

	return room, nil
}

// handleLeaveRoom removes the client's player from its room and acks
// the departure. On a disconnect the ack is dropped with the connection.
func (gm *GameManager) handleLeaveRoom(clientID uint32) {
	ack, ok := gm.leaveRoom(clientID)
	if !ok {
		return
	}
	gm.sendToClient(clientID, messages.MessageTypeServerRoomLeft, ack)
}

// leaveRoom takes the client's player out of its room, tearing the room
// down when the creator leaves or the roster empties.
func (gm *GameManager) leaveRoom(clientID uint32) (messages.ServerRoomLeft, bool) {
	roomID, ok := gm.clientRooms[clientID]
	if !ok {
		return messages.ServerRoomLeft{}, false
	}
	room := gm.rooms[roomID]
	playerID := gm.playerIDs[clientID]
	delete(gm.clientRooms, clientID)
	delete(gm.playerIDs, clientID)

	creator := room.Creator()
	player := room.RemovePlayer(playerID)
	if player == nil {
		return messages.ServerRoomLeft{}, false
	}
	log.Info("Player %s left room %s", player.Name, room.Code)

	ack := messages.ServerRoomLeft{
		RoomID:      room.ID,
		Code:        room.Code,
		PlayerID:    playerID,
		PlayerCount: len(room.Players),
	}

	if len(room.Players) == 0 || (creator != nil && creator.ID == playerID) {
		ack.RoomDeleted = true
		gm.deleteRoom(room, "creator left")
		return ack, true
	}

	gm.broadcastToRoom(room, messages.MessageTypeServerPlayerLeft, messages.ServerPlayerLeft{
		RoomID:      room.ID,
		Code:        room.Code,
		PlayerID:    playerID,
		PlayerCount: len(room.Players),
	})
	gm.persistRoom(room)
	return ack, true
}

func (gm *GameManager) deleteRoom(room *types.Room, reason string) {
	gm.broadcastToRoom(room, messages.MessageTypeServerRoomDeleted, messages.ServerRoomDeleted{
		RoomID:    room.ID,
		Reason:    reason,
		GameEnded: room.Started(),
	})
	for _, p := range room.Players {
		delete(gm.clientRooms, p.ClientID)
		delete(gm.playerIDs, p.ClientID)
	}
	delete(gm.roomsByCode, room.Code)
	delete(gm.rooms, room.ID)
	log.Info("Room %s deleted: %s", room.Code, reason)
	gm.persistRoomDelete(room.ID)
}

func (gm *GameManager) startRoom(room *types.Room) {
	room.Status = types.RoomStatusStarted
	log.Info("Room %s started on %s", room.Code, room.LevelID)
	gm.broadcastToRoom(room, messages.MessageTypeServerGameStarted, messages.ServerGameStarted{
		RoomID: room.ID,
		State:  gm.buildGameState(room),
	})
}

// loadLevel replaces the room's board with a fresh layout and resets
// all per-level state. Players are revived to full health and moved
// back to their spawns; bomb upgrades carry across levels.
func (gm *GameManager) loadLevel(room *types.Room, levelID string) error {
	lvl, err := gm.levelSource.Generate(levelID)
	if err != nil {
		return fmt.Errorf("failed to generate level %s: %v", levelID, err)
	}

	room.LevelID = levelID
	room.Grid = lvl.Grid
	room.DestroyedWalls = make(map[types.Position]bool)
	room.Bombs = nil
	room.Contacts = make(map[string]*types.ContactState)

	room.Enemies = make([]*types.Enemy, 0, len(lvl.Spawns))
	for _, sp := range lvl.Spawns {
		room.Enemies = append(room.Enemies, &types.Enemy{
			ID:            uuid.NewString(),
			Type:          sp.Type,
			Position:      sp.Position,
			SpawnPosition: sp.Position,
			Health:        constants.EnemyMaxHealth,
			Alive:         true,
		})
	}

	for i, p := range room.Players {
		p.Health = constants.PlayerMaxHealth
		p.Position = gm.spawnPosition(room, i)
		p.ReachedExit = false
	}

	return nil
}

// spawnPosition places the i-th roster member. The creator takes the
// level's start cell; later members take the nearest open neighbor.
func (gm *GameManager) spawnPosition(room *types.Room, index int) types.Position {
	lvl, err := gm.levelSource.Generate(room.LevelID)
	if err != nil {
		return types.Position{X: 1, Y: 1}
	}
	start := lvl.PlayerStart
	if index == 0 {
		return start
	}

	visited := map[types.Position]bool{start: true}
	queue := []types.Position{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, off := range types.CardinalOffsets {
			next := cur.Add(off)
			if visited[next] {
				continue
			}
			visited[next] = true
			if !room.Grid.IsTraversable(next) {
				continue
			}
			if room.BlockingPlayerAt(next, "") == nil {
				return next
			}
			queue = append(queue, next)
		}
	}
	return start
}

func (gm *GameManager) newPlayer(clientID uint32, name string, room *types.Room) *types.Player {
	p := &types.Player{
		ID:        uuid.NewString(),
		Name:      name,
		ClientID:  clientID,
		Health:    constants.PlayerMaxHealth,
		BombPower: constants.PlayerStartingBombPower,
		BombCount: constants.PlayerStartingBombCount,
	}
	p.Position = gm.spawnPosition(room, len(room.Players))
	return p
}

// maybeAdvanceLevel moves the room to the next level once every living
// player stands on the exit. Clearing the last level wins the match.
func (gm *GameManager) maybeAdvanceLevel(room *types.Room) {
	alive := room.AlivePlayers()
	if len(alive) == 0 {
		return
	}
	for _, p := range alive {
		if !p.ReachedExit {
			return
		}
	}

	nextID, ok := levels.NextLevelID(room.LevelID, constants.MaxLevelNumber)
	if !ok {
		room.GameOver = true
		room.Won = true
		log.Info("Room %s won the game", room.Code)
		gm.persistRoom(room)
		return
	}

	if err := gm.loadLevel(room, nextID); err != nil {
		log.Error("Failed to advance room %s to %s: %v", room.Code, nextID, err)
		return
	}
	room.LevelAdvanced = true
	log.Info("Room %s advanced to %s", room.Code, nextID)
	gm.persistRoom(room)
}

func (gm *GameManager) generateRoomCode() string {
	for {
		code := make([]byte, constants.RoomCodeLength)
		for i := range code {
			code[i] = roomCodeCharset[gm.rng.Intn(len(roomCodeCharset))]
		}
		if _, exists := gm.roomsByCode[string(code)]; !exists {
			return string(code)
		}
	}
}

// roomSummaries builds the lobby view. Only joinable rooms are listed:
// not started and below capacity.
func (gm *GameManager) roomSummaries() []messages.RoomSummary {
	summaries := make([]messages.RoomSummary, 0, len(gm.rooms))
	for _, room := range gm.rooms {
		if room.Started() || room.IsFull() {
			continue
		}
		summaries = append(summaries, messages.RoomSummary{
			RoomID:      room.ID,
			Code:        room.Code,
			LevelID:     room.LevelID,
			PlayerCount: len(room.Players),
			Capacity:    types.RoomCapacity,
			Started:     room.Started(),
		})
	}
	return summaries
}
