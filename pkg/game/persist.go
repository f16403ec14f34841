package game

import (
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
	"github.com/blastarena/server/pkg/repositories/models"
	"github.com/blastarena/server/pkg/workers"
)

// persistRoom mirrors the room to the repository through the save
// worker. The send never blocks; a full channel drops the write and the
// next persist point catches up.
func (gm *GameManager) persistRoom(room *types.Room) {
	if gm.persistRoomChan == nil {
		return
	}
	req := workers.PersistRoomRequest{
		Op:     workers.PersistRoomSave,
		RoomID: room.ID,
		Room:   roomModelFrom(room, gm.timestamp),
	}
	select {
	case gm.persistRoomChan <- req:
	default:
		log.Warn("Persist channel full, dropping save for room %s", room.Code)
	}
}

func (gm *GameManager) persistRoomDelete(roomID string) {
	if gm.persistRoomChan == nil {
		return
	}
	req := workers.PersistRoomRequest{
		Op:     workers.PersistRoomDelete,
		RoomID: roomID,
	}
	select {
	case gm.persistRoomChan <- req:
	default:
		log.Warn("Persist channel full, dropping delete for room %s", roomID)
	}
}

// roomModelFrom builds a detached persistence snapshot of the room.
func roomModelFrom(room *types.Room, timestamp int64) *models.Room {
	m := &models.Room{
		ID:        room.ID,
		Code:      room.Code,
		LevelID:   room.LevelID,
		Started:   room.Started(),
		Timestamp: timestamp,
		Players:   make([]models.Player, 0, len(room.Players)),
	}
	for _, p := range room.Players {
		m.Players = append(m.Players, models.Player{
			ID:     p.ID,
			Name:   p.Name,
			X:      p.Position.X,
			Y:      p.Position.Y,
			Health: p.Health,
		})
	}
	return m
}
