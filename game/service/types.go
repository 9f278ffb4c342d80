package service

import (
	"time"

	"github.com/wricardo/tile-merge-game/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	Seed           int64              `json:"seed"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation.
// Success reports whether the move changed the grid.
type MoveResult struct {
	Success   bool              `json:"success"`
	GameState *engine.GameState `json:"game_state"`
	Message   string            `json:"message"`
	Events    []GameEvent       `json:"events,omitempty"`
	Merged    []engine.Location `json:"merged,omitempty"`
	Spawn     *engine.Spawn     `json:"spawn,omitempty"`
	Step      *StepInfo         `json:"step,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	// Summary
	MovesExecuted  int               `json:"moves_executed"`
	RequestedMoves int               `json:"requested_moves"`
	Success        bool              `json:"success"`
	GameState      *engine.GameState `json:"game_state"`
	Events         []GameEvent       `json:"events"`
	StoppedReason  string            `json:"stopped_reason,omitempty"`
	StopReasonCode string            `json:"stop_reason_code,omitempty"` // game_over|victory|invalid_direction
	StoppedOnMove  int               `json:"stopped_on_move,omitempty"`  // 1-based
	Truncated      bool              `json:"truncated,omitempty"`
	Limit          int               `json:"limit,omitempty"`

	StartScore int `json:"start_score"`
	EndScore   int `json:"end_score"`
	ScoreDelta int `json:"score_delta"`

	// Per-step compact trace (only for this call)
	Steps []StepInfo `json:"steps,omitempty"`

	GameOver      bool     `json:"game_over"`
	Message       string   `json:"message,omitempty"`
	PossibleMoves []string `json:"possible_moves,omitempty"`
}

// StepInfo is a compact record of one executed move
type StepInfo struct {
	Idx         int           `json:"idx"`
	Dir         string        `json:"dir"`
	Changed     bool          `json:"changed"`
	Merges      int           `json:"merges"`
	Spawn       *engine.Spawn `json:"spawn,omitempty"`
	ScoreBefore int           `json:"score_before"`
	ScoreAfter  int           `json:"score_after"`
	Victory     bool          `json:"victory,omitempty"`
	GameOver    bool          `json:"game_over,omitempty"`
}

// Event types
const (
	EventReset    = "reset"
	EventMove     = "move"
	EventMerge    = "merge"
	EventSpawn    = "spawn"
	EventBlocked  = "blocked"
	EventVictory  = "victory"
	EventGameOver = "game_over"
)

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string           `json:"type"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Location  *engine.Location `json:"location,omitempty"`
	Value     int              `json:"value,omitempty"`
}

// MoveHistoryEntry records one move applied to a session
type MoveHistoryEntry struct {
	MoveNumber int               `json:"move_number"`
	Direction  string            `json:"direction"`
	Timestamp  time.Time         `json:"timestamp"`
	Changed    bool              `json:"changed"`
	Merged     []engine.Location `json:"merged,omitempty"`
	Spawn      *engine.Spawn     `json:"spawn,omitempty"`
	ScoreAfter int               `json:"score_after"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []MoveHistoryEntry `json:"moves"`
	TotalMoves  int                `json:"total_moves"`
	Page        int                `json:"page"`
	PageSize    int                `json:"page_size"`
	TotalPages  int                `json:"total_pages"`
	HasNext     bool               `json:"has_next"`
	HasPrevious bool               `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename     string  `json:"filename,omitempty"` // empty for the built-in config
	ConfigID     string  `json:"config_id"`          // The identifier to use for session creation
	Name         string  `json:"name"`               // Display name
	Description  string  `json:"description"`
	GridSize     int     `json:"grid_size"`
	WinThreshold int     `json:"win_threshold"`
	FourOdds     float64 `json:"four_probability"`
}
