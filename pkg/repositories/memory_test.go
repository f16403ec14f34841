package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/repositories/models"
)

func TestInMemoryRepositoryRoomLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	room := &models.Room{
		ID:        "room-1",
		Code:      "AB12CD",
		LevelID:   "level_1",
		Timestamp: 100,
		Players: []models.Player{
			{ID: "p1", Name: "alice", X: 1, Y: 1, Health: 100},
		},
	}
	require.NoError(t, repo.SaveRoom(ctx, room))

	got, err := repo.GetRoomByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, room, got)

	byCode, err := repo.GetRoomByCode(ctx, "AB12CD")
	require.NoError(t, err)
	assert.Equal(t, "room-1", byCode.ID)

	// Saves are copies; later mutation of the caller's struct must not
	// leak into the stored row.
	room.Players[0].Health = 0
	got, err = repo.GetRoomByID(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, 100, got.Players[0].Health)

	room.Started = true
	room.Timestamp = 200
	require.NoError(t, repo.SaveRoom(ctx, room))
	got, err = repo.GetRoomByID(ctx, "room-1")
	require.NoError(t, err)
	assert.True(t, got.Started)

	require.NoError(t, repo.DeleteRoom(ctx, "room-1"))
	_, err = repo.GetRoomByID(ctx, "room-1")
	assert.True(t, IsNotFound(err))
	_, err = repo.GetRoomByCode(ctx, "AB12CD")
	assert.True(t, IsNotFound(err))
}

func TestInMemoryRepositoryListRooms(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "a", Code: "AAAAAA", Timestamp: 1}))
	require.NoError(t, repo.SaveRoom(ctx, &models.Room{ID: "b", Code: "BBBBBB", Timestamp: 2}))

	rooms, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "b", rooms[0].ID)
	assert.Equal(t, "a", rooms[1].ID)
}

func TestInMemoryRepositoryListActiveRooms(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	waiting := &models.Room{
		ID: "waiting", Code: "AAAAAA", Timestamp: 1,
		Players: []models.Player{{ID: "p1", Name: "alice"}},
	}
	started := &models.Room{
		ID: "started", Code: "BBBBBB", Timestamp: 2, Started: true,
		Players: []models.Player{{ID: "p2", Name: "bob"}},
	}
	full := &models.Room{
		ID: "full", Code: "CCCCCC", Timestamp: 3,
		Players: []models.Player{{ID: "p3", Name: "carol"}, {ID: "p4", Name: "dave"}},
	}
	require.NoError(t, repo.SaveRoom(ctx, waiting))
	require.NoError(t, repo.SaveRoom(ctx, started))
	require.NoError(t, repo.SaveRoom(ctx, full))

	rooms, err := repo.ListActiveRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "waiting", rooms[0].ID)

	all, err := repo.ListRooms(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
