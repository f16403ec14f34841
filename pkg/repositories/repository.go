package repositories

import (
	"context"

	"github.com/blastarena/server/pkg/repositories/models"
)

// Repository mirrors room state for observability and recovery.
// The game loop never reads from it on the hot path; writes arrive
// through the save worker.
type Repository interface {
	Close(ctx context.Context) error
	SaveRoom(ctx context.Context, room *models.Room) error
	DeleteRoom(ctx context.Context, roomID string) error
	GetRoomByID(ctx context.Context, roomID string) (*models.Room, error)
	GetRoomByCode(ctx context.Context, code string) (*models.Room, error)
	ListRooms(ctx context.Context) ([]*models.Room, error)
	// ListActiveRooms returns only joinable rooms: not started and
	// below capacity.
	ListActiveRooms(ctx context.Context) ([]*models.Room, error)
}
