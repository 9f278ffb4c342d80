package engine

import (
	"fmt"
	"math"
	"math/bits"
)

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}

	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}

	// Validate win threshold: a reachable tile value
	if config.WinThreshold < 4 || bits.OnesCount(uint(config.WinThreshold)) != 1 {
		return fmt.Errorf("config validation: win_threshold must be a power of two >= 4, got %d", config.WinThreshold)
	}

	if math.IsNaN(config.FourProbability) || config.FourProbability < 0 || config.FourProbability > 1 {
		return fmt.Errorf("config validation: four_probability must be between 0 and 1, got %g", config.FourProbability)
	}

	cells := config.GridSize * config.GridSize
	if config.StartTiles < 0 || config.StartTiles > cells {
		return fmt.Errorf("config validation: start_tiles must be between 0 and %d, got %d", cells, config.StartTiles)
	}

	return nil
}

// DefaultGameConfig returns the classic 4x4 rules: win at 2048, one spawn in
// ten is a 4, two tiles on the opening board.
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:            "classic",
		Description:     "Classic 4x4 board, reach 2048 to win",
		GridSize:        DefaultGridSize,
		WinThreshold:    DefaultWinThreshold,
		FourProbability: DefaultFourProbability,
		StartTiles:      DefaultStartTiles,
	}
}
