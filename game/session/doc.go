// Package session provides session management for the tile merge game.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Unique session ID generation
//   - Seeded engines so every session can be replayed
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, the seed that drives its spawns,
// and metadata like creation time and last access time.
//
// Session Identifiers:
//
// Caller-chosen ids are matched case-insensitively. Empty ids are replaced by
// the first 8 hex characters of a random UUID.
//
// Usage:
//
//	manager := session.NewManager()
//
//	// Create and start a new session with a fixed seed
//	sess, err := manager.Create("", config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Retrieve existing session
//	sess, err = manager.Get(sess.ID)
//
//	// Drop sessions idle for an hour
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
