package levels

import (
	"fmt"
	"math/rand"

	"github.com/blastarena/server/pkg/game/types"
)

const (
	startExclusionRadius = 2
	enemyMinStartDist    = 3
	maxHardWalls         = 3
	maxBreakableWalls    = 12
	maxTotalWalls        = 15
)

func generate(def levelDef) (*Level, error) {
	grid := &types.LevelGrid{
		LevelID: def.ID,
		Width:   def.Width,
		Height:  def.Height,
		Tiles:   make(map[types.Position]types.TileType),
	}
	start := types.Position{X: def.PlayerStart[0], Y: def.PlayerStart[1]}

	stampBorders(grid)
	stampCheckerboard(grid)
	for _, p := range def.ExtraUnbreakable {
		grid.Tiles[types.Position{X: p[0], Y: p[1]}] = types.TileUnbreakable
	}

	if grid.TileAt(start) != types.TileEmpty {
		return nil, fmt.Errorf("level %s: player start %v is not on an empty cell", def.ID, start)
	}

	rng := rand.New(rand.NewSource(Seed(def.ID)))

	candidates := openCells(grid, start, startExclusionRadius)
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	n := LevelNumber(def.ID)
	hardCount := (n - 1) / 2
	if hardCount > maxHardWalls {
		hardCount = maxHardWalls
	}
	breakableCount := 8 + (n - 1)
	if breakableCount > maxBreakableWalls {
		breakableCount = maxBreakableWalls
	}
	if hardCount+breakableCount > maxTotalWalls {
		breakableCount = maxTotalWalls - hardCount
	}

	idx := 0
	for i := 0; i < hardCount && idx < len(candidates); i++ {
		grid.Tiles[candidates[idx]] = types.TileHard
		idx++
	}
	for i := 0; i < breakableCount && idx < len(candidates); i++ {
		grid.Tiles[candidates[idx]] = types.TileBreakable
		idx++
	}

	if err := placeExit(grid, types.Position{X: def.ExitPosition[0], Y: def.ExitPosition[1]}); err != nil {
		return nil, fmt.Errorf("level %s: %w", def.ID, err)
	}

	spawns, err := placeEnemies(grid, def, start, rng)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", def.ID, err)
	}

	return &Level{Grid: grid, PlayerStart: start, Spawns: spawns}, nil
}

func stampBorders(grid *types.LevelGrid) {
	for x := 0; x < grid.Width; x++ {
		grid.Tiles[types.Position{X: x, Y: 0}] = types.TileUnbreakable
		grid.Tiles[types.Position{X: x, Y: grid.Height - 1}] = types.TileUnbreakable
	}
	for y := 0; y < grid.Height; y++ {
		grid.Tiles[types.Position{X: 0, Y: y}] = types.TileUnbreakable
		grid.Tiles[types.Position{X: grid.Width - 1, Y: y}] = types.TileUnbreakable
	}
}

func stampCheckerboard(grid *types.LevelGrid) {
	for y := 2; y < grid.Height-1; y += 2 {
		for x := 2; x < grid.Width-1; x += 2 {
			grid.Tiles[types.Position{X: x, Y: y}] = types.TileUnbreakable
		}
	}
}

// openCells returns the empty interior cells outside the exclusion zone
// around start, in row-major order so shuffles are reproducible.
func openCells(grid *types.LevelGrid, start types.Position, exclusion int) []types.Position {
	var cells []types.Position
	for y := 1; y < grid.Height-1; y++ {
		for x := 1; x < grid.Width-1; x++ {
			pos := types.Position{X: x, Y: y}
			if grid.TileAt(pos) != types.TileEmpty {
				continue
			}
			if pos.ManhattanDistance(start) <= exclusion {
				continue
			}
			cells = append(cells, pos)
		}
	}
	return cells
}

// placeExit puts the exit on the target cell when it is empty or
// breakable, otherwise on the nearest empty cell found by breadth-first
// search from the target.
func placeExit(grid *types.LevelGrid, target types.Position) error {
	t := grid.TileAt(target)
	if t == types.TileEmpty || t == types.TileBreakable {
		grid.Tiles[target] = types.TileExit
		return nil
	}

	visited := map[types.Position]bool{target: true}
	queue := []types.Position{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, off := range types.CardinalOffsets {
			next := types.Position{X: cur.X + off.X, Y: cur.Y + off.Y}
			if visited[next] {
				continue
			}
			if next.X < 0 || next.Y < 0 || next.X >= grid.Width || next.Y >= grid.Height {
				continue
			}
			visited[next] = true
			if grid.TileAt(next) == types.TileEmpty {
				grid.Tiles[next] = types.TileExit
				return nil
			}
			queue = append(queue, next)
		}
	}
	return fmt.Errorf("no reachable cell for exit near %v", target)
}

func placeEnemies(grid *types.LevelGrid, def levelDef, start types.Position, rng *rand.Rand) ([]EnemySpawn, error) {
	cells := openCells(grid, start, startExclusionRadius)
	rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	// Cells far from the player start go first; nearer ones are only
	// used when the far pool runs dry.
	var far, near []types.Position
	for _, c := range cells {
		if c.ManhattanDistance(start) >= enemyMinStartDist {
			far = append(far, c)
		} else {
			near = append(near, c)
		}
	}
	pool := append(far, near...)

	var spawns []EnemySpawn
	for _, sd := range def.EnemySpawns {
		et, err := types.ParseEnemyType(sd.Type)
		if err != nil {
			return nil, err
		}
		for i := 0; i < sd.Count; i++ {
			if len(pool) == 0 {
				return nil, fmt.Errorf("not enough open cells for enemy spawns")
			}
			spawns = append(spawns, EnemySpawn{Type: et, Position: pool[0]})
			pool = pool[1:]
		}
	}
	return spawns, nil
}
