package game

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/levels"
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/network"
	"github.com/blastarena/server/pkg/queue"
)

// stubLevelSource serves hand-built layouts so tests control every
// tile. Builders run per call, matching the fresh-grid contract.
type stubLevelSource struct {
	build map[string]func() *levels.Level
}

func (s *stubLevelSource) Generate(levelID string) (*levels.Level, error) {
	b, ok := s.build[levelID]
	if !ok {
		return nil, fmt.Errorf("unknown level id %q", levelID)
	}
	return b(), nil
}

// openArena builds a 7x7 bordered room with an exit at (5,5) and no
// interior walls.
func openArena(levelID string, spawns []levels.EnemySpawn) func() *levels.Level {
	return openArenaWithTiles(levelID, spawns, nil)
}

func openArenaWithTiles(levelID string, spawns []levels.EnemySpawn, extra map[types.Position]types.TileType) func() *levels.Level {
	return func() *levels.Level {
		grid := &types.LevelGrid{
			LevelID: levelID,
			Width:   7,
			Height:  7,
			Tiles:   make(map[types.Position]types.TileType),
		}
		for x := 0; x < 7; x++ {
			grid.Tiles[types.Position{X: x, Y: 0}] = types.TileUnbreakable
			grid.Tiles[types.Position{X: x, Y: 6}] = types.TileUnbreakable
		}
		for y := 0; y < 7; y++ {
			grid.Tiles[types.Position{X: 0, Y: y}] = types.TileUnbreakable
			grid.Tiles[types.Position{X: 6, Y: y}] = types.TileUnbreakable
		}
		grid.Tiles[types.Position{X: 5, Y: 5}] = types.TileExit
		for pos, tile := range extra {
			grid.Tiles[pos] = tile
		}
		return &levels.Level{
			Grid:        grid,
			PlayerStart: types.Position{X: 1, Y: 1},
			Spawns:      spawns,
		}
	}
}

func newTestManager(src levels.Source) *GameManager {
	return NewGameManager(NewGameManagerOptions{
		ClientManager:    network.NewClientManager(),
		MessageQueue:     queue.NewInMemoryQueue(100),
		LevelSource:      src,
		GameLoopInterval: constants.DefaultTickInterval,
		Rand:             rand.New(rand.NewSource(1)),
	})
}

func newArenaManager(spawns []levels.EnemySpawn) *GameManager {
	return newTestManager(&stubLevelSource{build: map[string]func() *levels.Level{
		"level_1": openArena("level_1", spawns),
		"level_2": openArena("level_2", nil),
	}})
}

// startedRoom creates a room for client 1 and fills it with client 2,
// which starts the match.
func startedRoom(t *testing.T, gm *GameManager) *types.Room {
	t.Helper()
	room, err := gm.createRoom(1, "alice")
	require.NoError(t, err)
	_, err = gm.joinRoom(2, room.Code, "bob")
	require.NoError(t, err)
	require.True(t, room.Started())
	return room
}
