package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/game/types"
)

func TestBuildGameStateSnapshot(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	state := gm.buildGameState(room)

	assert.Equal(t, room.ID, state.RoomID)
	assert.Equal(t, room.Code, state.Code)
	assert.Equal(t, "level_1", state.LevelID)
	assert.Equal(t, 1, state.Level)
	assert.True(t, state.Started)
	assert.False(t, state.GameOver)
	assert.Equal(t, 7, state.Grid.Width)
	assert.Equal(t, 7, state.Grid.Height)
	assert.Len(t, state.Players, 2)
	assert.Empty(t, state.Bombs)
	assert.Empty(t, state.DestroyedWalls)
	assert.Equal(t, int(types.TileUnbreakable), state.Grid.Tiles[0][0])
	assert.Equal(t, int(types.TileExit), state.Grid.Tiles[5][5])
}

func TestSnapshotReportsLevelAdvanceForOneTick(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	room.Players[0].Position = types.Position{X: 5, Y: 5}
	room.Players[0].ReachedExit = true
	room.Players[1].Position = types.Position{X: 5, Y: 4}
	require.NoError(t, gm.movePlayer(room, room.Players[1], types.DirectionDown))
	require.Equal(t, "level_2", room.LevelID)

	state := gm.buildGameState(room)
	assert.True(t, state.LevelAdvanced)
	assert.Equal(t, "level_2", state.NewLevelID)

	// The advancing tick's broadcast consumes the flag.
	gm.broadcastSnapshots()
	state = gm.buildGameState(room)
	assert.False(t, state.LevelAdvanced)
	assert.Empty(t, state.NewLevelID)
}

func TestBroadcastSkipsWaitingRooms(t *testing.T) {
	gm := newArenaManager(nil)
	room, err := gm.createRoom(1, "alice")
	require.NoError(t, err)

	// Flag untouched means the waiting room was not visited.
	room.LevelAdvanced = true
	gm.broadcastSnapshots()
	assert.True(t, room.LevelAdvanced)

	_, err = gm.joinRoom(2, room.Code, "bob")
	require.NoError(t, err)
	gm.broadcastSnapshots()
	assert.False(t, room.LevelAdvanced)
}

func TestBuildGameStateListsDestroyedWallsInOrder(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	room.DestroyedWalls[types.Position{X: 4, Y: 3}] = true
	room.DestroyedWalls[types.Position{X: 2, Y: 3}] = true
	room.DestroyedWalls[types.Position{X: 3, Y: 2}] = true

	state := gm.buildGameState(room)
	assert.Equal(t, [][2]int{{3, 2}, {2, 3}, {4, 3}}, state.DestroyedWalls)
}
