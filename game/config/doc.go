// Package config provides configuration management for the tile merge game.
//
// The config package handles:
//   - Loading rule sets from YAML or JSON files through viper
//   - Environment overrides with the TILEMERGE_ prefix
//   - Default configuration management and a built-in classic rule set
//   - Configuration discovery, listing and saving
//   - Directory-wide validation reports
//
// Configuration Format:
//
// Each file in the config directory defines one rule set:
//
//	name: Small
//	description: Three by three, race to 512
//	grid_size: 3
//	win_threshold: 512
//	four_probability: 0.1
//	start_tiles: 2
//
// Keys left out take the classic values, and the name defaults to the file
// name. TILEMERGE_WIN_THRESHOLD=512 overrides win_threshold for every file
// read after it is set.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific configuration
//	gameConfig, err := manager.LoadConfig("small")
//
//	// Get default configuration
//	defaultConfig := manager.GetDefault()
//
//	// List available configurations
//	configs, err := manager.ListConfigs()
//
// Validation:
//
// Files are checked against the engine rules (grid size, power-of-two win
// threshold, spawn odds, start tiles) and ValidateDir additionally rejects
// thresholds no board of that size can reach.
package config
