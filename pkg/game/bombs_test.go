package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
)

func TestPlaceBomb(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 3, Y: 3}

	require.NoError(t, gm.placeBomb(room, alice))
	require.Len(t, room.Bombs, 1)
	assert.Equal(t, alice.ID, room.Bombs[0].OwnerID)
	assert.Equal(t, alice.Position, room.Bombs[0].Position)
	assert.InDelta(t, constants.BombCountdownSeconds, room.Bombs[0].Timer, 1e-9)
	assert.True(t, room.Bombs[0].IsLive())
}

func TestPlaceBombOnOccupiedTileRejected(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 3, Y: 3}

	require.NoError(t, gm.placeBomb(room, alice))
	err := gm.placeBomb(room, alice)
	assert.EqualError(t, err, "tile already has a bomb")
}

func TestPlaceBombLimit(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 3, Y: 3}

	require.NoError(t, gm.placeBomb(room, alice))
	require.NoError(t, gm.movePlayer(room, alice, types.DirectionRight))

	err := gm.placeBomb(room, alice)
	assert.EqualError(t, err, "bomb limit reached")

	// A second charge raises the cap.
	alice.BombCount = 2
	require.NoError(t, gm.placeBomb(room, alice))
	assert.Len(t, room.Bombs, 2)
}

func TestBombExplodesAfterCountdown(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 3, Y: 3}
	require.NoError(t, gm.placeBomb(room, alice))
	require.NoError(t, gm.movePlayer(room, alice, types.DirectionRight))
	require.NoError(t, gm.movePlayer(room, alice, types.DirectionRight))

	gm.updateBombs(room, constants.BombCountdownSeconds-0.1)
	assert.True(t, room.Bombs[0].IsLive())

	gm.updateBombs(room, 0.2)
	require.Len(t, room.Bombs, 1)
	bomb := room.Bombs[0]
	assert.True(t, bomb.Exploded)
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 3, Y: 3})
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 2, Y: 3})
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 4, Y: 3})
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 3, Y: 2})
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 3, Y: 4})
	assert.Len(t, bomb.BlastTiles, 5)
}

func TestBombFadeRemoval(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	room.Bombs = append(room.Bombs, &types.Bomb{OwnerID: room.Players[0].ID, Position: types.Position{X: 3, Y: 3}, Timer: 0.1})

	gm.updateBombs(room, 0.2)
	require.Len(t, room.Bombs, 1)
	assert.True(t, room.Bombs[0].Exploded)

	gm.updateBombs(room, constants.BombFadeSeconds/2)
	assert.Len(t, room.Bombs, 1)

	gm.updateBombs(room, constants.BombFadeSeconds)
	assert.Empty(t, room.Bombs)
}

func TestBlastStopsAtWalls(t *testing.T) {
	extra := map[types.Position]types.TileType{
		{X: 4, Y: 3}: types.TileBreakable,
		{X: 3, Y: 2}: types.TileHard,
	}
	gm := newTestManager(&stubLevelSource{build: map[string]func() *levels.Level{
		"level_1": openArenaWithTiles("level_1", nil, extra),
	}})
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.BombPower = 2

	bomb := &types.Bomb{OwnerID: alice.ID, Position: types.Position{X: 3, Y: 3}, Timer: 0}
	room.Bombs = append(room.Bombs, bomb)
	gm.explodeBomb(room, bomb)

	// The breakable wall is hit, cleared, and ends the ray.
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 4, Y: 3})
	assert.NotContains(t, bomb.BlastTiles, types.Position{X: 5, Y: 3})
	assert.Equal(t, types.TileEmpty, room.Grid.TileAt(types.Position{X: 4, Y: 3}))
	assert.True(t, room.DestroyedWalls[types.Position{X: 4, Y: 3}])

	// The hard wall survives and ends its ray without being included.
	assert.NotContains(t, bomb.BlastTiles, types.Position{X: 3, Y: 2})
	assert.NotContains(t, bomb.BlastTiles, types.Position{X: 3, Y: 1})
	assert.Equal(t, types.TileHard, room.Grid.TileAt(types.Position{X: 3, Y: 2}))

	// Open rays reach full power.
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 1, Y: 3})
	assert.Contains(t, bomb.BlastTiles, types.Position{X: 3, Y: 5})
}

func TestBlastDamagesPlayersAndEnemiesOnce(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice, bob := room.Players[0], room.Players[1]
	alice.Position = types.Position{X: 3, Y: 3}
	bob.Position = types.Position{X: 4, Y: 3}
	enemy := &types.Enemy{ID: "e1", Position: types.Position{X: 2, Y: 3}, Alive: true, Health: constants.EnemyMaxHealth}
	room.Enemies = append(room.Enemies, enemy)

	bomb := &types.Bomb{OwnerID: alice.ID, Position: types.Position{X: 3, Y: 3}, Timer: 0.1}
	room.Bombs = append(room.Bombs, bomb)
	gm.updateBombs(room, 0.2)

	assert.Equal(t, constants.PlayerMaxHealth-constants.BombPlayerDamage, alice.Health)
	assert.Equal(t, constants.PlayerMaxHealth-constants.BombPlayerDamage, bob.Health)
	assert.Equal(t, constants.EnemyMaxHealth-constants.BombEnemyDamage, enemy.Health)

	// Further ticks while the explosion fades apply no extra damage.
	gm.updateBombs(room, 0.2)
	gm.updateBombs(room, 0.2)
	assert.Equal(t, constants.PlayerMaxHealth-constants.BombPlayerDamage, alice.Health)
	assert.Equal(t, constants.EnemyMaxHealth-constants.BombEnemyDamage, enemy.Health)
}

func TestBlastKillsEnemy(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	enemy := &types.Enemy{ID: "e1", Position: types.Position{X: 4, Y: 3}, Alive: true, Health: constants.BombEnemyDamage}
	room.Enemies = append(room.Enemies, enemy)

	bomb := &types.Bomb{OwnerID: room.Players[0].ID, Position: types.Position{X: 3, Y: 3}, Timer: 0}
	room.Bombs = append(room.Bombs, bomb)
	gm.explodeBomb(room, bomb)

	assert.False(t, enemy.Alive)
	assert.Equal(t, 0, enemy.Health)
}

func TestChainDetonation(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 1, Y: 5}

	first := &types.Bomb{OwnerID: alice.ID, Position: types.Position{X: 3, Y: 3}, Timer: 0.1}
	second := &types.Bomb{OwnerID: alice.ID, Position: types.Position{X: 4, Y: 3}, Timer: 3}
	room.Bombs = append(room.Bombs, first, second)

	gm.updateBombs(room, 0.2)

	assert.True(t, first.Exploded)
	assert.True(t, second.Exploded)
}

func TestExplodedBombDoesNotBlockMovement(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 3, Y: 3}

	room.Bombs = append(room.Bombs, &types.Bomb{
		OwnerID:   alice.ID,
		Position:  types.Position{X: 4, Y: 3},
		Exploded:  true,
		FadeTimer: constants.BombFadeSeconds,
	})

	require.NoError(t, gm.movePlayer(room, alice, types.DirectionRight))
}

func TestExitedPlayerUntouchedByBlast(t *testing.T) {
	gm := newArenaManager(nil)
	room := startedRoom(t, gm)
	alice := room.Players[0]
	alice.Position = types.Position{X: 4, Y: 3}
	alice.ReachedExit = true

	bomb := &types.Bomb{OwnerID: room.Players[1].ID, Position: types.Position{X: 3, Y: 3}, Timer: 0}
	room.Bombs = append(room.Bombs, bomb)
	gm.explodeBomb(room, bomb)

	assert.Equal(t, constants.PlayerMaxHealth, alice.Health)
}
