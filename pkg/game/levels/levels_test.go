package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/game/types"
)

func TestSeedIsStable(t *testing.T) {
	assert.Equal(t, Seed("level_1"), Seed("level_1"))
	assert.NotEqual(t, Seed("level_1"), Seed("level_2"))
	assert.GreaterOrEqual(t, Seed("level_1"), int64(0))
	assert.Less(t, Seed("level_1"), int64(1<<31))
}

func TestGenerateIsDeterministic(t *testing.T) {
	src, err := NewJSONSource()
	require.NoError(t, err)

	a, err := src.Generate("level_3")
	require.NoError(t, err)
	b, err := src.Generate("level_3")
	require.NoError(t, err)

	assert.Equal(t, a.Grid.Tiles, b.Grid.Tiles)
	assert.Equal(t, a.PlayerStart, b.PlayerStart)
	assert.Equal(t, a.Spawns, b.Spawns)
	// Distinct grid instances so one room's destruction never leaks
	// into another room on the same level.
	a.Grid.Tiles[types.Position{X: 1, Y: 2}] = types.TileBreakable
	assert.NotEqual(t, a.Grid.Tiles, b.Grid.Tiles)
}

func TestGenerateLayoutInvariants(t *testing.T) {
	src, err := NewJSONSource()
	require.NoError(t, err)

	for id := range src.defs {
		lvl, err := src.Generate(id)
		require.NoError(t, err, id)
		grid := lvl.Grid

		for x := 0; x < grid.Width; x++ {
			assert.Equal(t, types.TileUnbreakable, grid.TileAt(types.Position{X: x, Y: 0}), id)
			assert.Equal(t, types.TileUnbreakable, grid.TileAt(types.Position{X: x, Y: grid.Height - 1}), id)
		}
		for y := 0; y < grid.Height; y++ {
			assert.Equal(t, types.TileUnbreakable, grid.TileAt(types.Position{X: 0, Y: y}), id)
			assert.Equal(t, types.TileUnbreakable, grid.TileAt(types.Position{X: grid.Width - 1, Y: y}), id)
		}

		exits := 0
		for _, tile := range grid.Tiles {
			if tile == types.TileExit {
				exits++
			}
		}
		assert.Equal(t, 1, exits, id)

		assert.Equal(t, types.TileEmpty, grid.TileAt(lvl.PlayerStart), id)

		for _, sp := range lvl.Spawns {
			assert.True(t, grid.IsTraversable(sp.Position), id)
			assert.Greater(t, sp.Position.ManhattanDistance(lvl.PlayerStart), startExclusionRadius, id)
		}
	}
}

func TestGenerateWallBudgets(t *testing.T) {
	src, err := NewJSONSource()
	require.NoError(t, err)

	for id := range src.defs {
		lvl, err := src.Generate(id)
		require.NoError(t, err, id)

		hard, breakable := 0, 0
		for _, tile := range lvl.Grid.Tiles {
			switch tile {
			case types.TileHard:
				hard++
			case types.TileBreakable:
				breakable++
			}
		}
		assert.LessOrEqual(t, hard, maxHardWalls, id)
		assert.LessOrEqual(t, breakable, maxBreakableWalls, id)
		assert.LessOrEqual(t, hard+breakable, maxTotalWalls, id)
	}
}

func TestPlaceExitFallsBackToNearestEmpty(t *testing.T) {
	grid := &types.LevelGrid{
		LevelID: "test",
		Width:   7,
		Height:  7,
		Tiles:   make(map[types.Position]types.TileType),
	}
	stampBorders(grid)
	// Block the target so the search has to walk to a neighbor.
	target := types.Position{X: 5, Y: 5}
	grid.Tiles[target] = types.TileUnbreakable

	require.NoError(t, placeExit(grid, target))

	exit, ok := grid.ExitPosition()
	require.True(t, ok)
	assert.NotEqual(t, target, exit)
	assert.Equal(t, 1, exit.ManhattanDistance(target))
}

func TestGenerateRejectsUnknownLevel(t *testing.T) {
	src, err := NewJSONSource()
	require.NoError(t, err)

	_, err = src.Generate("level_99")
	assert.Error(t, err)
}

func TestLevelProgression(t *testing.T) {
	assert.Equal(t, 4, LevelNumber("level_4"))
	assert.Equal(t, 1, LevelNumber("garbage"))

	next, ok := NextLevelID("level_1", 10)
	require.True(t, ok)
	assert.Equal(t, "level_2", next)

	_, ok = NextLevelID("level_10", 10)
	assert.False(t, ok)
}
