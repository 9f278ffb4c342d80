// Package service provides the business logic layer for the tile merge game.
//
// The service package implements:
//   - Multi-session game management
//   - Configuration listing, loading and saving
//   - Move processing with spawning, events and move history
//   - Bulk moves capped at engine.MaxBulkMoves
//   - OpenTelemetry spans for every operation
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
//
// Architecture:
//
// The service layer sits between the front ends (console, CLI) and the game
// engine. It owns the caller side of the engine contract: a tile is spawned
// only after a move that changed the grid and did not end the game, and the
// merge locations are handed to the caller and cleared before the next move.
// Each session keeps its own engine, seeded so a game can be replayed.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session on the default rules
//	sessionInfo, err := gameService.CreateSession(ctx, "", 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "left", false)
//
// Tracing:
//
// Spans are named service.<operation> and carry session.id plus the move
// and score attributes. Use WithTracerProvider to record them somewhere other
// than the global provider.
package service
