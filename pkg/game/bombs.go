package game

import (
	"fmt"

	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/types"
	"github.com/blastarena/server/pkg/log"
)

// placeBomb arms a bomb on the player's tile.
func (gm *GameManager) placeBomb(room *types.Room, player *types.Player) error {
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
	if room.LiveBombAt(player.Position) != nil {
		return fmt.Errorf("tile already has a bomb")
	}
	if room.LiveBombCount(player.ID) >= player.BombCount {
		return fmt.Errorf("bomb limit reached")
	}

	room.Bombs = append(room.Bombs, &types.Bomb{
		OwnerID:  player.ID,
		Position: player.Position,
		Timer:    constants.BombCountdownSeconds,
	})
	return nil
}

// updateBombs advances bomb countdowns and fades, detonating expired
// bombs and removing faded ones.
func (gm *GameManager) updateBombs(room *types.Room, dt float64) {
	for _, bomb := range room.Bombs {
		if bomb.Exploded {
			bomb.FadeTimer -= dt
			continue
		}
		bomb.Timer -= dt
		if bomb.Timer <= 0 {
			gm.explodeBomb(room, bomb)
		}
	}

	// Drop fully faded bombs, preserving order.
	remaining := room.Bombs[:0]
	for _, bomb := range room.Bombs {
		if bomb.Exploded && bomb.FadeTimer <= 0 {
			continue
		}
		remaining = append(remaining, bomb)
	}
	room.Bombs = remaining
}

// explodeBomb computes the blast, clears walls, and applies damage
// exactly once. A live bomb caught in the blast detonates in the same
// tick.
func (gm *GameManager) explodeBomb(room *types.Room, bomb *types.Bomb) {
	if bomb.Exploded {
		return
	}
	bomb.Exploded = true
	bomb.FadeTimer = constants.BombFadeSeconds

	power := constants.PlayerStartingBombPower
	if owner := room.GetPlayer(bomb.OwnerID); owner != nil {
		power = owner.BombPower
	}

	bomb.BlastTiles = gm.computeBlast(room, bomb.Position, power)
	log.Debug("Bomb at %v exploded in room %s, %d tiles", bomb.Position, room.Code, len(bomb.BlastTiles))

	for _, p := range room.Players {
		if p.IsAlive() && !p.ReachedExit && bomb.InBlast(p.Position) {
			p.TakeDamage(constants.BombPlayerDamage)
		}
	}
	for _, e := range room.Enemies {
		if e.Alive && bomb.InBlast(e.Position) {
			e.TakeDamage(constants.BombEnemyDamage)
		}
	}

	// Chain detonation. Exploded bombs are skipped, so each bomb's
	// damage applies once no matter how it was triggered.
	for _, other := range room.Bombs {
		if !other.Exploded && bomb.InBlast(other.Position) {
			gm.explodeBomb(room, other)
		}
	}
}

// computeBlast casts four rays from the center. Unbreakable and hard
// walls stop a ray without being included; a breakable wall is cleared,
// included, and stops the ray.
func (gm *GameManager) computeBlast(room *types.Room, center types.Position, power int) []types.Position {
	blast := []types.Position{center}
	for _, off := range types.CardinalOffsets {
	ray:
		for step := 1; step <= power; step++ {
			pos := types.Position{X: center.X + off.X*step, Y: center.Y + off.Y*step}
			switch room.Grid.TileAt(pos) {
			case types.TileUnbreakable, types.TileHard:
				break ray
			case types.TileBreakable:
				room.Grid.ClearTile(pos)
				room.DestroyedWalls[pos] = true
				blast = append(blast, pos)
				break ray
			default:
				blast = append(blast, pos)
			}
		}
	}
	return blast
}
