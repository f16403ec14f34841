package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
)

func TestCreateRoom(t *testing.T) {
	gm := newArenaManager([]levels.EnemySpawn{
		{Type: types.EnemyStatic, Position: types.Position{X: 4, Y: 4}},
	})

	room, err := gm.createRoom(1, "alice")
	require.NoError(t, err)

	assert.Len(t, room.Code, constants.RoomCodeLength)
	for _, c := range room.Code {
		assert.Contains(t, roomCodeCharset, string(c))
	}
	assert.Equal(t, types.RoomStatusWaiting, room.Status)
	assert.False(t, room.Started())

	require.Len(t, room.Players, 1)
	creator := room.Creator()
	assert.Equal(t, "alice", creator.Name)
	assert.Equal(t, types.Position{X: 1, Y: 1}, creator.Position)
	assert.Equal(t, constants.PlayerMaxHealth, creator.Health)

	require.Len(t, room.Enemies, 1)
	assert.Equal(t, types.Position{X: 4, Y: 4}, room.Enemies[0].Position)
	assert.True(t, room.Enemies[0].Alive)
	assert.Equal(t, constants.EnemyMaxHealth, room.Enemies[0].Health)
}

func TestCreateRoomTwiceRejected(t *testing.T) {
	gm := newArenaManager(nil)

	_, err := gm.createRoom(1, "alice")
	require.NoError(t, err)
	_, err = gm.createRoom(1, "alice")
	assert.Error(t, err)
}

func TestJoinRoomStartsWhenFull(t *testing.T) {
	gm := newArenaManager(nil)

	room, err := gm.createRoom(1, "alice")
	require.NoError(t, err)

	joined, err := gm.joinRoom(2, room.Code, "bob")
	require.NoError(t, err)
	assert.Same(t, room, joined)
	assert.True(t, room.Started())

	require.Len(t, room.Players, 2)
	assert.NotEqual(t, room.Players[0].Position, room.Players[1].Position)
}

func TestJoinRoomErrors(t *testing.T) {
	gm := newArenaManager(nil)

	room, err := gm.createRoom(1, "alice")
	require.NoError(t, err)

	_, err = gm.joinRoom(2, "ZZZZZZ", "bob")
	assert.Error(t, err, "unknown code")

	_, err = gm.joinRoom(2, room.Code, "bob")
	require.NoError(t, err)

	_, err = gm.joinRoom(3, room.Code, "carol")
	assert.Error(t, err, "room already started")
}

func TestLeaveByCreatorDeletesRoom(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	ack, ok := gm.leaveRoom(1)
	require.True(t, ok)

	assert.Empty(t, gm.rooms)
	assert.Empty(t, gm.roomsByCode)
	assert.Empty(t, gm.clientRooms)
	assert.Equal(t, room.ID, ack.RoomID)
	assert.Equal(t, room.Code, ack.Code)
	assert.True(t, ack.RoomDeleted)
}

func TestLeaveByJoinerKeepsRoom(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	joinerID := room.Players[1].ID

	ack, ok := gm.leaveRoom(2)
	require.True(t, ok)

	assert.Len(t, gm.rooms, 1)
	assert.Len(t, room.Players, 1)
	assert.Equal(t, "alice", room.Players[0].Name)
	_, found := gm.clientRooms[2]
	assert.False(t, found)

	assert.Equal(t, joinerID, ack.PlayerID)
	assert.Equal(t, 1, ack.PlayerCount)
	assert.False(t, ack.RoomDeleted)
}

func TestLeaveWithoutRoomIsNoAck(t *testing.T) {
	gm := newArenaManager(nil)

	_, ok := gm.leaveRoom(9)
	assert.False(t, ok)
}

func TestRoomIsolation(t *testing.T) {
	breakable := map[types.Position]types.TileType{
		{X: 2, Y: 1}: types.TileBreakable,
	}
	gm := newTestManager(&stubLevelSource{build: map[string]func() *levels.Level{
		"level_1": openArenaWithTiles("level_1", nil, breakable),
	}})

	roomA := startedRoom(t, gm)
	roomB, err := gm.createRoom(3, "carol")
	require.NoError(t, err)

	// Clearing a wall in one room must not appear in the other.
	require.True(t, roomA.Grid.ClearTile(types.Position{X: 2, Y: 1}))
	assert.Equal(t, types.TileBreakable, roomB.Grid.TileAt(types.Position{X: 2, Y: 1}))
}

func TestLevelAdvanceWhenAllAliveReachExit(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	room.Bombs = append(room.Bombs, &types.Bomb{OwnerID: room.Players[0].ID, Position: types.Position{X: 3, Y: 3}, Timer: 1})

	room.Players[0].Position = types.Position{X: 5, Y: 5}
	room.Players[0].ReachedExit = true
	room.Players[0].Health = 40
	room.Players[1].Position = types.Position{X: 5, Y: 4}
	require.NoError(t, gm.movePlayer(room, room.Players[1], types.DirectionDown))

	assert.Equal(t, "level_2", room.LevelID)
	assert.False(t, room.GameOver)
	assert.Empty(t, room.Bombs)
	for _, p := range room.Players {
		assert.False(t, p.ReachedExit)
		assert.Equal(t, constants.PlayerMaxHealth, p.Health)
	}
	assert.Equal(t, types.Position{X: 1, Y: 1}, room.Players[0].Position)
}

func TestDeadPlayerDoesNotBlockLevelAdvance(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	room.Players[1].Health = 0
	room.Players[0].Position = types.Position{X: 5, Y: 5}
	room.Players[0].ReachedExit = true
	gm.maybeAdvanceLevel(room)

	assert.Equal(t, "level_2", room.LevelID)
	assert.Equal(t, constants.PlayerMaxHealth, room.Players[1].Health)
}

func TestWinOnFinalLevel(t *testing.T) {
	gm := newTestManager(&stubLevelSource{build: map[string]func() *levels.Level{
		"level_1":  openArena("level_1", nil),
		"level_10": openArena("level_10", nil),
	}})
	room := startedRoom(t, gm)

	require.NoError(t, gm.loadLevel(room, "level_10"))
	for _, p := range room.Players {
		p.ReachedExit = true
	}
	gm.maybeAdvanceLevel(room)

	assert.True(t, room.GameOver)
	assert.True(t, room.Won)
}

func TestAllPlayersDeadLosesGame(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)

	for _, p := range room.Players {
		p.Health = 0
	}
	gm.resolveRoomOutcome(room)

	assert.True(t, room.GameOver)
	assert.False(t, room.Won)
}

func TestRoomSummariesListOnlyJoinableRooms(t *testing.T) {
	gm := newArenaManager(nil)
	waiting, err := gm.createRoom(1, "alice")
	require.NoError(t, err)

	summaries := gm.roomSummaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, waiting.Code, summaries[0].Code)
	assert.Equal(t, 1, summaries[0].PlayerCount)
	assert.Equal(t, types.RoomCapacity, summaries[0].Capacity)
	assert.False(t, summaries[0].Started)

	// Filling the room starts it, which removes it from the lobby.
	_, err = gm.joinRoom(2, waiting.Code, "bob")
	require.NoError(t, err)
	assert.Empty(t, gm.roomSummaries())
}
