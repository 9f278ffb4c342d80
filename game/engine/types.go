package engine

import (
	"fmt"
	"strings"
)

// Direction is one of the four cardinal directions a move can push the tiles.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

const (
	// Validation constants
	MinGridSize     = 2
	MaxGridSize     = 8
	DefaultGridSize = 4

	DefaultWinThreshold    = 2048
	DefaultFourProbability = 0.1
	DefaultStartTiles      = 2

	MaxBulkMoves = 50
)

// Directions lists every recognized direction in a stable order.
var Directions = []Direction{Up, Down, Left, Right}

// Valid reports whether d is one of Up, Down, Left or Right.
func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// MarshalText encodes the direction as its lowercase name.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("unknown direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText accepts anything ParseDirection accepts.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDirection maps a direction name or a WASD key to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "w":
		return Up, nil
	case "down", "s":
		return Down, nil
	case "left", "a":
		return Left, nil
	case "right", "d":
		return Right, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// Location is a row/column address on the grid
type Location struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row, l.Col)
}

// MoveStep describes how one tile slid during a move.
// Merged is set on the tile that was absorbed into the merge at To.
type MoveStep struct {
	From   Location `json:"from"`
	To     Location `json:"to"`
	Merged bool     `json:"merged,omitempty"`
}

// Spawn is a tile placed by SpawnTile
type Spawn struct {
	Value    int      `json:"value"`
	Location Location `json:"location"`
}

// GameConfig represents the game rules, loaded from a config file or built in
type GameConfig struct {
	Name            string  `json:"name" yaml:"name" mapstructure:"name"`
	Description     string  `json:"description" yaml:"description" mapstructure:"description"`
	GridSize        int     `json:"grid_size" yaml:"grid_size" mapstructure:"grid_size"`
	WinThreshold    int     `json:"win_threshold" yaml:"win_threshold" mapstructure:"win_threshold"`
	FourProbability float64 `json:"four_probability" yaml:"four_probability" mapstructure:"four_probability"`
	StartTiles      int     `json:"start_tiles" yaml:"start_tiles" mapstructure:"start_tiles"`
}

// GameState is a serializable snapshot of an engine
type GameState struct {
	Grid         [][]int    `json:"grid"`
	CurrentScore int        `json:"current_score"`
	BestScore    int        `json:"best_score"`
	MaxTile      int        `json:"max_tile"`
	EmptyCells   int        `json:"empty_cells"`
	Changed      []Location `json:"changed"`
	MoveSteps    []MoveStep `json:"move_steps"`
	IsChanged    bool       `json:"is_changed"`
	IsOver       bool       `json:"is_over"`
	IsSuccess    bool       `json:"is_success"`
	WinThreshold int        `json:"win_threshold"`
	ConfigName   string     `json:"config_name"`
}
