package game

import (
	"fmt"

	"github.com/blastarena/server/pkg/game/types"
)

// movePlayer applies a single-step move intent. Checks run in a fixed
// order so the reported rejection is stable: room state, player state,
// terrain, bombs, enemies, players.
func (gm *GameManager) movePlayer(room *types.Room, player *types.Player, dir types.Direction) error {
	if !room.Started() {
		return fmt.Errorf("room has not started")
	}
	if room.GameOver {
		return fmt.Errorf("game is over")
	}
	if !player.IsAlive() {
		return fmt.Errorf("player is dead")
	}
	if player.ReachedExit {
		return fmt.Errorf("player already reached the exit")
	}

	target := player.Position.Add(dir.Offset())
	if !room.Grid.IsTraversable(target) {
		return fmt.Errorf("tile is blocked")
	}
	if room.LiveBombAt(target) != nil {
		return fmt.Errorf("tile has a bomb")
	}
	if room.LivingEnemyAt(target) != nil {
		return fmt.Errorf("tile has an enemy")
	}
	if room.BlockingPlayerAt(target, player.ID) != nil {
		return fmt.Errorf("tile is occupied")
	}

	player.Position = target

	if room.Grid.TileAt(target) == types.TileExit {
		player.ReachedExit = true
		gm.maybeAdvanceLevel(room)
	}

	return nil
}
