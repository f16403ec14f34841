package game

import (
	"github.com/blastarena/server/pkg/game/constants"
	"github.com/blastarena/server/pkg/game/types"
)

// updateEnemies advances enemy movement timers, steps enemies that are
// due, and applies contact damage.
func (gm *GameManager) updateEnemies(room *types.Room, dt float64) {
	moved := make(map[string]bool)

	for _, enemy := range room.Enemies {
		if !enemy.Alive {
			continue
		}
		enemy.MoveElapsed += dt
		if enemy.MoveElapsed < constants.EnemyMoveIntervalSeconds {
			continue
		}
		enemy.MoveElapsed = 0

		next, ok := gm.nextEnemyStep(room, enemy)
		if ok && next != enemy.Position {
			enemy.Position = next
			moved[enemy.ID] = true
		}
	}

	gm.applyContactDamage(room, dt, moved)
}

// nextEnemyStep picks the enemy's step for this interval per variant.
func (gm *GameManager) nextEnemyStep(room *types.Room, enemy *types.Enemy) (types.Position, bool) {
	switch enemy.Type {
	case types.EnemyStatic:
		return gm.staticStep(room, enemy)
	case types.EnemyChasing:
		return gm.chasingStep(room, enemy)
	case types.EnemySmart:
		return gm.smartStep(room, enemy)
	}
	return enemy.Position, false
}

// staticStep wanders randomly but never strays more than one tile from
// the spawn point.
func (gm *GameManager) staticStep(room *types.Room, enemy *types.Enemy) (types.Position, bool) {
	var options []types.Position
	for _, off := range types.CardinalOffsets {
		next := enemy.Position.Add(off)
		if next.ManhattanDistance(enemy.SpawnPosition) > 1 {
			continue
		}
		if gm.enemyCanOccupy(room, next) {
			options = append(options, next)
		}
	}
	if len(options) == 0 {
		return enemy.Position, false
	}
	return options[gm.rng.Intn(len(options))], true
}

// chasingStep greedily steps toward the nearest living player,
// standing still when no step improves the distance.
func (gm *GameManager) chasingStep(room *types.Room, enemy *types.Enemy) (types.Position, bool) {
	target, ok := nearestTarget(room, enemy.Position)
	if !ok {
		return enemy.Position, false
	}

	best := enemy.Position
	bestDist := enemy.Position.ManhattanDistance(target)
	for _, off := range types.CardinalOffsets {
		next := enemy.Position.Add(off)
		if !gm.enemyCanOccupy(room, next) {
			continue
		}
		if d := next.ManhattanDistance(target); d < bestDist {
			best = next
			bestDist = d
		}
	}
	return best, best != enemy.Position
}

// smartStep closes in along the dominant axis first, falling back to
// the other axis when the preferred step is blocked.
func (gm *GameManager) smartStep(room *types.Room, enemy *types.Enemy) (types.Position, bool) {
	target, ok := nearestTarget(room, enemy.Position)
	if !ok {
		return enemy.Position, false
	}

	dx := target.X - enemy.Position.X
	dy := target.Y - enemy.Position.Y

	var steps []types.Position
	xStep := types.Position{X: sign(dx), Y: 0}
	yStep := types.Position{X: 0, Y: sign(dy)}
	if abs(dx) >= abs(dy) {
		steps = []types.Position{xStep, yStep}
	} else {
		steps = []types.Position{yStep, xStep}
	}

	for _, step := range steps {
		if step == (types.Position{}) {
			continue
		}
		next := enemy.Position.Add(step)
		if gm.enemyCanOccupy(room, next) {
			return next, true
		}
	}
	return enemy.Position, false
}

// enemyCanOccupy reports whether an enemy may step onto the tile.
// Enemies never stack with walls, bombs, other enemies, or players;
// damage comes from adjacency, not overlap.
func (gm *GameManager) enemyCanOccupy(room *types.Room, pos types.Position) bool {
	if !room.Grid.IsTraversable(pos) {
		return false
	}
	if room.LiveBombAt(pos) != nil {
		return false
	}
	if room.LivingEnemyAt(pos) != nil {
		return false
	}
	if room.BlockingPlayerAt(pos, "") != nil {
		return false
	}
	return true
}

// nearestTarget finds the closest player an enemy should pursue.
func nearestTarget(room *types.Room, from types.Position) (types.Position, bool) {
	var target types.Position
	best := -1
	for _, p := range room.Players {
		if !p.IsBlocking() {
			continue
		}
		d := from.ManhattanDistance(p.Position)
		if best < 0 || d < best {
			best = d
			target = p.Position
		}
	}
	return target, best >= 0
}

// applyContactDamage damages players adjacent to an enemy that moved
// this tick. Sustained contact with the same enemy shortens the
// cooldown between hits.
func (gm *GameManager) applyContactDamage(room *types.Room, dt float64, moved map[string]bool) {
	for _, player := range room.Players {
		if !player.IsAlive() || player.ReachedExit {
			delete(room.Contacts, player.ID)
			continue
		}

		enemy := contactingEnemy(room, player.Position)
		if enemy == nil {
			delete(room.Contacts, player.ID)
			continue
		}

		cs := room.Contacts[player.ID]
		if cs == nil || cs.EnemyID != enemy.ID {
			cs = &types.ContactState{EnemyID: enemy.ID}
			room.Contacts[player.ID] = cs
		} else {
			cs.Duration += dt
			cs.Cooldown -= dt
		}

		if !moved[enemy.ID] {
			continue
		}
		if cs.Cooldown > 0 {
			continue
		}

		player.TakeDamage(constants.EnemyContactDamage)
		if cs.Duration >= constants.ContactSustainedThresholdSeconds {
			cs.Cooldown = constants.ContactCooldownSustainedSeconds
		} else {
			cs.Cooldown = constants.ContactCooldownInitialSeconds
		}
	}
}

// contactingEnemy returns the closest living enemy within one tile of
// the position.
func contactingEnemy(room *types.Room, pos types.Position) *types.Enemy {
	var found *types.Enemy
	best := -1
	for _, e := range room.Enemies {
		if !e.Alive {
			continue
		}
		d := pos.ManhattanDistance(e.Position)
		if d > 1 {
			continue
		}
		if best < 0 || d < best {
			best = d
			found = e
		}
	}
	return found
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
