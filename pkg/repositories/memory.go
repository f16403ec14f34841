package repositories

import (
	"context"
	"sort"
	"sync"

	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/repositories/models"
)

// InMemoryRepository is a map-backed repository for tests and for
// running without a database.
type InMemoryRepository struct {
	lock  sync.RWMutex
	rooms map[string]*models.Room
}

func NewInMemoryRepository() Repository {
	return &InMemoryRepository{
		rooms: make(map[string]*models.Room),
	}
}

func (r *InMemoryRepository) Close(ctx context.Context) error {
	return nil
}

func (r *InMemoryRepository) SaveRoom(ctx context.Context, room *models.Room) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.rooms[room.ID] = cloneRoom(room)
	return nil
}

func (r *InMemoryRepository) DeleteRoom(ctx context.Context, roomID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.rooms, roomID)
	return nil
}

func (r *InMemoryRepository) GetRoomByID(ctx context.Context, roomID string) (*models.Room, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	room, ok := r.rooms[roomID]
	if !ok {
		return nil, &ErrNotFound{}
	}
	return cloneRoom(room), nil
}

func (r *InMemoryRepository) GetRoomByCode(ctx context.Context, code string) (*models.Room, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, room := range r.rooms {
		if room.Code == code {
			return cloneRoom(room), nil
		}
	}
	return nil, &ErrNotFound{}
}

func (r *InMemoryRepository) ListRooms(ctx context.Context) ([]*models.Room, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, cloneRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Timestamp > rooms[j].Timestamp
	})
	return rooms, nil
}

func (r *InMemoryRepository) ListActiveRooms(ctx context.Context) ([]*models.Room, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	rooms := make([]*models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if room.Started || len(room.Players) >= types.RoomCapacity {
			continue
		}
		rooms = append(rooms, cloneRoom(room))
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].Timestamp > rooms[j].Timestamp
	})
	return rooms, nil
}

func cloneRoom(room *models.Room) *models.Room {
	clone := *room
	clone.Players = append([]models.Player(nil), room.Players...)
	return &clone
}
