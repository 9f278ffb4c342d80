package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	GetGrid() *Grid
	SetGrid(grid *Grid) error
	Start() []Spawn
	Reset()
	IsOver() bool
	IsSuccess() bool
	IsChanged() bool
	GetCurrentScore() int
	GetBestScore() int

	// Move operations
	Move(direction Direction)
	SpawnTile() (Spawn, bool)
	CanMove(direction Direction) bool
	GetPossibleMoves() []Direction

	// Move results
	GetChangedLocations() []Location
	ClearChanged()
	GetMoveSteps() []MoveStep

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface.
// It is not safe for concurrent use; callers serialize access.
type GameEngine struct {
	config *GameConfig
	rng    Rand

	grid         *Grid
	previousGrid *Grid

	currentScore int
	bestScore    int

	changed   []Location
	moveSteps []MoveStep

	isChanged bool
	isOver    bool
	isSuccess bool
}

// NewEngine creates an engine with an empty grid for the provided
// configuration. A nil rng seeds one from the clock.
func NewEngine(config *GameConfig, rng Rand) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = NewRand(0)
	}

	return &GameEngine{
		config: config,
		rng:    rng,
		grid:   NewGrid(config.GridSize, config.GridSize),
	}, nil
}

// NewEngineWithDefaults creates an engine using DefaultGameConfig
func NewEngineWithDefaults(rng Rand) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), rng)
	if err != nil {
		panic(fmt.Sprintf("default config rejected: %v", err))
	}
	return e
}

// GetState returns a snapshot of the engine
func (e *GameEngine) GetState() *GameState {
	return &GameState{
		Grid:         e.grid.Values(),
		CurrentScore: e.currentScore,
		BestScore:    e.bestScore,
		MaxTile:      e.grid.MaxValue(),
		EmptyCells:   len(e.grid.EmptyLocations()),
		Changed:      e.GetChangedLocations(),
		MoveSteps:    e.GetMoveSteps(),
		IsChanged:    e.isChanged,
		IsOver:       e.isOver,
		IsSuccess:    e.isSuccess,
		WinThreshold: e.config.WinThreshold,
		ConfigName:   e.config.Name,
	}
}

// GetGrid returns a copy of the live grid for rendering
func (e *GameEngine) GetGrid() *Grid {
	return e.grid.Clone()
}

// SetGrid replaces the board, used to load a position.
// Scores and flags are left as they are.
func (e *GameEngine) SetGrid(grid *Grid) error {
	if grid == nil {
		return fmt.Errorf("grid cannot be nil")
	}
	if grid.Rows() != e.grid.Rows() || grid.Cols() != e.grid.Cols() {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrInvalidGrid,
			grid.Rows(), grid.Cols(), e.grid.Rows(), e.grid.Cols())
	}
	e.grid = grid.Clone()
	return nil
}

// Start resets the game and places the configured number of opening tiles
func (e *GameEngine) Start() []Spawn {
	e.Reset()

	spawns := make([]Spawn, 0, e.config.StartTiles)
	for i := 0; i < e.config.StartTiles; i++ {
		spawn, ok := e.SpawnTile()
		if !ok {
			break
		}
		spawns = append(spawns, spawn)
	}
	return spawns
}

// Reset discards the grid for an empty one and clears the current game.
// The best score survives, and so do the merge locations and move steps of
// the last move; callers clear those themselves.
func (e *GameEngine) Reset() {
	e.grid = NewGrid(e.config.GridSize, e.config.GridSize)
	e.isOver = false
	e.isSuccess = false
	e.currentScore = 0
}

// IsOver returns whether the game has ended, won or stuck
func (e *GameEngine) IsOver() bool {
	return e.isOver
}

// IsSuccess returns whether the game ended in a win
func (e *GameEngine) IsSuccess() bool {
	return e.isSuccess
}

// IsChanged returns whether the last move altered the grid
func (e *GameEngine) IsChanged() bool {
	return e.isChanged
}

// GetCurrentScore returns the largest tile produced by a merge this game
func (e *GameEngine) GetCurrentScore() int {
	return e.currentScore
}

// GetBestScore returns the largest current score seen by this engine
func (e *GameEngine) GetBestScore() int {
	return e.bestScore
}

// SpawnTile places a 2 or a 4 on a random empty cell.
// It returns false without touching the grid when the board is full or the
// game is over.
func (e *GameEngine) SpawnTile() (Spawn, bool) {
	if e.isOver {
		return Spawn{}, false
	}

	spawn, ok := PickSpawn(e.grid.EmptyLocations(), e.rng, e.config.FourProbability)
	if !ok {
		return Spawn{}, false
	}
	e.grid.cells[spawn.Location.Row][spawn.Location.Col] = spawn.Value
	return spawn, true
}

// CanMove reports whether moving in direction would change the grid
func (e *GameEngine) CanMove(direction Direction) bool {
	if e.isOver || !direction.Valid() {
		return false
	}
	probe, _ := SimulateMove(e.grid, direction)
	return probe.DiffersFrom(e.grid)
}

// GetPossibleMoves returns every direction that would change the grid
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// GetChangedLocations returns the cells that received a merge in the last move
func (e *GameEngine) GetChangedLocations() []Location {
	return append([]Location(nil), e.changed...)
}

// ClearChanged drops the merge locations once the caller has consumed them
func (e *GameEngine) ClearChanged() {
	e.changed = nil
}

// GetMoveSteps returns the slide vectors of the last move
func (e *GameEngine) GetMoveSteps() []MoveStep {
	return append([]MoveStep(nil), e.moveSteps...)
}

// GetConfig returns the current game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetWinThreshold returns the tile value that wins the game
func (e *GameEngine) GetWinThreshold() int {
	return e.config.WinThreshold
}
