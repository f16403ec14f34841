package levels

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/blastarena/server/pkg/game/types"
)

//go:embed levels.json
var levelsJSON []byte

// FirstLevelID is where every new room starts.
const FirstLevelID = "level_1"

// EnemySpawn pairs an enemy variant with the cell it spawns on.
type EnemySpawn struct {
	Type     types.EnemyType
	Position types.Position
}

// Level is a fully generated layout for one level id. Each call to
// Generate returns a fresh copy so rooms never share mutable grids.
type Level struct {
	Grid        *types.LevelGrid
	PlayerStart types.Position
	Spawns      []EnemySpawn
}

// Source produces level layouts by id.
type Source interface {
	Generate(levelID string) (*Level, error)
}

type enemySpawnDef struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type levelDef struct {
	ID               string          `json:"id"`
	Width            int             `json:"width"`
	Height           int             `json:"height"`
	PlayerStart      [2]int          `json:"player_start"`
	ExitPosition     [2]int          `json:"exit_position"`
	ExtraUnbreakable [][2]int        `json:"extra_unbreakable"`
	EnemySpawns      []enemySpawnDef `json:"enemy_spawns"`
}

// JSONSource serves the embedded level definitions.
type JSONSource struct {
	defs map[string]levelDef
}

// NewJSONSource parses the embedded definitions.
func NewJSONSource() (*JSONSource, error) {
	var defs []levelDef
	if err := json.Unmarshal(levelsJSON, &defs); err != nil {
		return nil, fmt.Errorf("failed to parse level definitions: %w", err)
	}
	s := &JSONSource{defs: make(map[string]levelDef, len(defs))}
	for _, d := range defs {
		if d.Width < 5 || d.Height < 5 {
			return nil, fmt.Errorf("level %s is too small (%dx%d)", d.ID, d.Width, d.Height)
		}
		s.defs[d.ID] = d
	}
	return s, nil
}

// Generate builds a fresh layout for the given level id.
func (s *JSONSource) Generate(levelID string) (*Level, error) {
	def, ok := s.defs[levelID]
	if !ok {
		return nil, fmt.Errorf("unknown level id %q", levelID)
	}
	return generate(def)
}

// LevelNumber extracts the numeric suffix of a level id, e.g. 3 for
// "level_3". Unparseable ids report level 1.
func LevelNumber(levelID string) int {
	idx := strings.LastIndex(levelID, "_")
	if idx < 0 {
		return 1
	}
	n, err := strconv.Atoi(levelID[idx+1:])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// NextLevelID returns the id that follows levelID, or ok=false when
// levelID is the last one.
func NextLevelID(levelID string, maxLevel int) (string, bool) {
	n := LevelNumber(levelID)
	if n >= maxLevel {
		return "", false
	}
	return fmt.Sprintf("level_%d", n+1), true
}
