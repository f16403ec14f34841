package game

import (
	"encoding/json"
	"fmt"

	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/messages"
	"github.com/blastarena/server/pkg/metrics"
)

// handleClientMessage validates and applies one intent. Rejections go
// back to the sender as error events; they never affect room state.
func (gm *GameManager) handleClientMessage(clientID uint32, msg *messages.Message) {
	metrics.RecordIntent(msg.Type)

	var err error
	switch msg.Type {
	case messages.MessageTypeClientPing:
		gm.sendToClient(clientID, messages.MessageTypeServerPong, struct{}{})
	case messages.MessageTypeClientCreateRoom:
		err = gm.handleCreateRoom(clientID, msg.Payload)
	case messages.MessageTypeClientJoinRoom:
		err = gm.handleJoinRoom(clientID, msg.Payload)
	case messages.MessageTypeClientLeaveRoom:
		gm.handleLeaveRoom(clientID)
	case messages.MessageTypeClientListRooms:
		gm.sendToClient(clientID, messages.MessageTypeServerRoomsList, messages.ServerRoomsList{
			Rooms: gm.roomSummaries(),
		})
	case messages.MessageTypeClientPlayerMove:
		err = gm.handlePlayerMove(clientID, msg.Payload)
	case messages.MessageTypeClientPlaceBomb:
		err = gm.handlePlaceBomb(clientID)
	case messages.MessageTypeClientPlayerDamage:
		err = gm.handlePlayerDamage(clientID, msg.Payload)
	default:
		err = fmt.Errorf("unknown message type: %s", msg.Type)
	}

	if err != nil {
		metrics.RecordIntentRejected(msg.Type)
		log.Debug("Rejected %s from client %d: %v", msg.Type, clientID, err)
		gm.sendToClient(clientID, messages.MessageTypeServerError, messages.ServerError{
			Message: err.Error(),
		})
	}
}

func (gm *GameManager) handleCreateRoom(clientID uint32, payload json.RawMessage) error {
	var req messages.ClientCreateRoom
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid create_room payload: %v", err)
	}
	if req.PlayerName == "" {
		return fmt.Errorf("player name is required")
	}

	room, err := gm.createRoom(clientID, req.PlayerName)
	if err != nil {
		return err
	}

	gm.sendToClient(clientID, messages.MessageTypeServerRoomCreated, messages.ServerRoomCreated{
		RoomID:      room.ID,
		Code:        room.Code,
		PlayerID:    gm.playerIDs[clientID],
		PlayerCount: len(room.Players),
	})
	return nil
}

func (gm *GameManager) handleJoinRoom(clientID uint32, payload json.RawMessage) error {
	var req messages.ClientJoinRoom
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid join_room payload: %v", err)
	}
	if req.PlayerName == "" {
		return fmt.Errorf("player name is required")
	}

	_, err := gm.joinRoom(clientID, req.Code, req.PlayerName)
	return err
}

func (gm *GameManager) handlePlayerMove(clientID uint32, payload json.RawMessage) error {
	var req messages.ClientPlayerMove
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid player_move payload: %v", err)
	}
	dir, err := types.ParseDirection(req.Direction)
	if err != nil {
		return err
	}

	room, player, err := gm.roomPlayer(clientID)
	if err != nil {
		return err
	}
	return gm.movePlayer(room, player, dir)
}

func (gm *GameManager) handlePlaceBomb(clientID uint32) error {
	room, player, err := gm.roomPlayer(clientID)
	if err != nil {
		return err
	}
	return gm.placeBomb(room, player)
}

// handlePlayerDamage applies externally sourced damage, e.g. traps on
// the client's presentation layer. The amount is clamped server-side.
func (gm *GameManager) handlePlayerDamage(clientID uint32, payload json.RawMessage) error {
	var req messages.ClientPlayerDamage
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("invalid player_damage payload: %v", err)
	}
	if req.Damage <= 0 {
		return fmt.Errorf("damage must be positive")
	}

	room, player, err := gm.roomPlayer(clientID)
	if err != nil {
		return err
	}
	if !room.Started() || room.GameOver {
		return fmt.Errorf("room is not running")
	}
	if !player.IsAlive() {
		return fmt.Errorf("player is dead")
	}

	player.TakeDamage(req.Damage)
	gm.resolveRoomOutcome(room)
	return nil
}

// roomPlayer resolves the sender's room and player from its connection
// identity.
func (gm *GameManager) roomPlayer(clientID uint32) (*types.Room, *types.Player, error) {
	roomID, ok := gm.clientRooms[clientID]
	if !ok {
		return nil, nil, fmt.Errorf("not in a room")
	}
	room := gm.rooms[roomID]
	player := room.GetPlayerByClient(clientID)
	if player == nil {
		return nil, nil, fmt.Errorf("player not found")
	}
	return room, player, nil
}
