// Package engine provides the rules of a 2048-style sliding-tile merge puzzle.
//
// The engine package implements:
//   - A fixed-size Grid with row and column line access
//   - Line compaction and single-pass merging with a displacement ledger
//   - Move orchestration across all rows or columns of the grid
//   - Tile spawning from an injected random source
//   - Win and stalemate detection
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. Grid holds the board, ProcessLine is the pure
// per-line algorithm, and GameConfig defines the board size, the win
// threshold and the spawn odds.
//
// Usage:
//
//	rng := engine.NewRand(42)
//	gameEngine := engine.NewEngineWithDefaults(rng)
//	gameEngine.Start()
//
//	gameEngine.Move(engine.Left)
//	if gameEngine.IsChanged() {
//		gameEngine.SpawnTile()
//	}
//	merged := gameEngine.GetChangedLocations()
//	gameEngine.ClearChanged()
//
// Game Rules:
//
// A move pushes every tile toward one wall. Equal neighbours merge once per
// move, the leading pair first, so a row of four 2s becomes two 4s. The
// current score is the largest tile produced by a merge; reaching the win
// threshold ends the game as a success. A full board without equal
// neighbours ends it as a stalemate. The engine never spawns on its own:
// the caller decides, usually only after a move that changed the grid.
package engine
