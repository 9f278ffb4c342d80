package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/wricardo/tile-merge-game/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// Notes holds informational lines for valid files.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
	Notes  []string
}

// ValidateDir checks every config file in the directory without touching the
// cache. Beyond the engine's own rules it rejects boards too small to ever
// build the win threshold.
func (m *Manager) ValidateDir() ([]ValidationResult, error) {
	if m.configDir == "" {
		return nil, errors.New("no config directory to validate")
	}

	files, err := m.configFiles()
	if err != nil {
		return nil, err
	}

	results := make([]ValidationResult, 0, len(files))
	for _, filename := range files {
		results = append(results, validateFile(filepath.Join(m.configDir, filename)))
	}
	return results, nil
}

// validateFile loads and validates a single configuration file
func validateFile(path string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(path),
		Valid:  true,
		Errors: []string{},
	}

	config, err := readConfigFile(path)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if err := engine.ValidateGameConfig(config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	if limit, ok := maxReachableTile(config.GridSize); ok && config.WinThreshold > limit {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"win_threshold %d is unreachable on a %dx%d board (largest possible tile %d)",
			config.WinThreshold, config.GridSize, config.GridSize, limit))
		return result
	}

	result.Notes = append(result.Notes,
		fmt.Sprintf("✓ Name: %s", config.Name),
		fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize),
		fmt.Sprintf("✓ Win threshold: %d", config.WinThreshold),
		fmt.Sprintf("✓ Four odds: %.0f%%", config.FourProbability*100),
		fmt.Sprintf("✓ Start tiles: %d", config.StartTiles),
	)
	return result
}

// maxReachableTile bounds the largest tile a size x size board can hold: a
// full staircase of distinct powers fed by 4s tops out at 2^(cells+1).
// ok is false when the bound does not fit in an int.
func maxReachableTile(size int) (int, bool) {
	exp := size*size + 1
	if exp >= 62 {
		return 0, false
	}
	return 1 << exp, true
}
