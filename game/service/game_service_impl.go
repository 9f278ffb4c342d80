package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wricardo/tile-merge-game/game/engine"
	"github.com/wricardo/tile-merge-game/game/telemetry"
)

// TracerName names the tracer the service records spans with
var TracerName = telemetry.ScopeName("service")

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrConfigNotFound   = errors.New("configuration not found")
)

// History pagination bounds
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithTracerProvider records spans with tp instead of the global provider
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *gameServiceImpl) {
		s.tracer = tp.Tracer(TracerName)
	}
}

// WithLogger replaces the default component logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *gameServiceImpl) {
		s.logger = logger
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		tracer:   telemetry.Tracer("service"),
		logger:   slog.Default().With("component", "service"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// getConfigID returns the config_id for a given config name, used for consistent responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	return configName
}

// CreateSession creates and starts a new game session. An empty configName
// uses the default configuration; a zero seed lets the session pick one.
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, seed int64) (*SessionInfo, error) {
	ctx, span := s.tracer.Start(ctx, "service.create_session", trace.WithAttributes(
		attribute.String("config.name", configName),
		attribute.Int64("game.seed", seed),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			return nil, fail(span, s.configError(configName, err))
		}
	} else {
		config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", config, seed)
	if err != nil {
		return nil, fail(span, fmt.Errorf("failed to create session: %w", err))
	}

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	span.SetAttributes(attribute.String("session.id", session.ID), attribute.Int64("game.seed", session.Seed))
	s.logger.InfoContext(ctx, "session started", "session_id", session.ID, "config", configID, "seed", session.Seed)

	info := s.sessionInfo(session)
	info.ConfigName = configID
	return info, nil
}

// configError lists the available ids when the requested config is missing
func (s *gameServiceImpl) configError(configName string, err error) error {
	if !errors.Is(err, ErrConfigNotFound) {
		return fmt.Errorf("failed to load config %s: %w", configName, err)
	}

	availableConfigs, listErr := s.configs.ListConfigs()
	if listErr != nil || len(availableConfigs) == 0 {
		return err
	}

	var configIDs []string
	for _, cfg := range availableConfigs {
		configIDs = append(configIDs, cfg.ConfigID)
	}
	return fmt.Errorf("config '%s' not found, available configs: %v: %w", configName, configIDs, err)
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	_, span := s.startSessionSpan(ctx, "service.get_session", sessionID)
	defer span.End()

	// write lock: UpdateLastAccessed mutates the session
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	_, span := s.tracer.Start(ctx, "service.list_sessions")
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}

	span.SetAttributes(attribute.Int("session.count", len(result)))
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	ctx, span := s.startSessionSpan(ctx, "service.delete_session", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fail(span, err)
	}
	s.logger.InfoContext(ctx, "session ended", "session_id", sessionID)
	return nil
}

// Move executes a single move for a session. The direction is parsed before
// the session is touched, so an unrecognized string never reaches the engine.
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	ctx, span := s.startSessionSpan(ctx, "service.move", sessionID)
	defer span.End()
	span.SetAttributes(attribute.String("move.direction", direction), attribute.Bool("move.reset", reset))

	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: %q", ErrInvalidDirection, direction))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}
	s.sessions.UpdateLastAccessed(sessionID)

	events := []GameEvent{}
	if reset {
		events = append(events, s.resetSession(sess))
	}

	outcome := s.applyMove(sess, dir, 1)
	events = append(events, outcome.events...)

	span.SetAttributes(
		attribute.Bool("move.changed", outcome.step.Changed),
		attribute.Int("move.merges", outcome.step.Merges),
		attribute.Int("game.score", outcome.step.ScoreAfter),
	)
	s.logger.DebugContext(ctx, "move applied",
		"session_id", sess.ID, "direction", dir.String(),
		"changed", outcome.step.Changed, "merges", outcome.step.Merges, "score", outcome.step.ScoreAfter)

	step := outcome.step
	return &MoveResult{
		Success:   step.Changed,
		GameState: sess.Engine.GetState(),
		Message:   outcome.message,
		Events:    events,
		Merged:    outcome.merged,
		Spawn:     step.Spawn,
		Step:      &step,
	}, nil
}

// BulkMove executes up to engine.MaxBulkMoves moves in order, stopping early
// once the game is over. Every direction is checked before any is applied.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	ctx, span := s.startSessionSpan(ctx, "service.bulk_move", sessionID)
	defer span.End()
	span.SetAttributes(attribute.Int("move.requested", len(moves)), attribute.Bool("move.reset", reset))

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Events:         make([]GameEvent, 0),
		Success:        true,
	}

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	dirs := make([]engine.Direction, len(moves))
	for i, move := range moves {
		dir, err := engine.ParseDirection(move)
		if err != nil {
			return nil, fail(span, fmt.Errorf("%w: move %d: %q", ErrInvalidDirection, i+1, move))
		}
		dirs[i] = dir
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}
	s.sessions.UpdateLastAccessed(sessionID)

	if reset {
		result.Events = append(result.Events, s.resetSession(sess))
	}
	result.StartScore = sess.Engine.GetCurrentScore()

	for i, dir := range dirs {
		if sess.Engine.IsOver() {
			result.Success = false
			result.StoppedOnMove = i + 1
			result.StoppedReason = fmt.Sprintf("game over before move %d", i+1)
			result.StopReasonCode = stopCode(sess.Engine)
			break
		}

		outcome := s.applyMove(sess, dir, i+1)
		result.MovesExecuted++
		result.Events = append(result.Events, outcome.events...)
		result.Steps = append(result.Steps, outcome.step)
		result.Message = outcome.message
	}

	state := sess.Engine.GetState()
	result.GameState = state
	result.EndScore = state.CurrentScore
	result.ScoreDelta = result.EndScore - result.StartScore
	result.GameOver = state.IsOver
	if result.GameOver && result.StopReasonCode == "" {
		result.StopReasonCode = stopCode(sess.Engine)
	}
	for _, dir := range sess.Engine.GetPossibleMoves() {
		result.PossibleMoves = append(result.PossibleMoves, dir.String())
	}

	span.SetAttributes(
		attribute.Int("move.executed", result.MovesExecuted),
		attribute.Int("game.score", result.EndScore),
		attribute.Bool("game.over", result.GameOver),
	)
	s.logger.DebugContext(ctx, "bulk move applied",
		"session_id", sess.ID, "executed", result.MovesExecuted, "requested", result.RequestedMoves, "score", result.EndScore)

	return result, nil
}

// Reset starts a fresh game in the session. The best score is kept.
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	ctx, span := s.startSessionSpan(ctx, "service.reset", sessionID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}

	s.sessions.UpdateLastAccessed(sessionID)
	s.resetSession(sess)
	s.logger.InfoContext(ctx, "session reset", "session_id", sess.ID)

	return sess.Engine.GetState(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	_, span := s.startSessionSpan(ctx, "service.get_game_state", sessionID)
	defer span.End()

	// write lock: UpdateLastAccessed mutates the session
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}

	s.sessions.UpdateLastAccessed(sessionID)
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	_, span := s.startSessionSpan(ctx, "service.get_move_history", sessionID)
	defer span.End()

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("session not found: %w", err))
	}

	return paginateHistory(sess.History, opts), nil
}

// paginateHistory applies the page, limit and order of opts to history
func paginateHistory(history []MoveHistoryEntry, opts HistoryOptions) *HistoryResponse {
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultHistoryLimit
	}
	if opts.Limit > MaxHistoryLimit {
		opts.Limit = MaxHistoryLimit
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []MoveHistoryEntry{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				moves = append(moves, history[i])
			}
		} else {
			moves = append(moves, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	_, span := s.tracer.Start(ctx, "service.list_configs")
	defer span.End()

	configs, err := s.configs.ListConfigs()
	if err != nil {
		return nil, fail(span, err)
	}
	return configs, nil
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	_, span := s.tracer.Start(ctx, "service.load_config", trace.WithAttributes(attribute.String("config.name", configName)))
	defer span.End()

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fail(span, err)
	}
	return config, nil
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	ctx, span := s.tracer.Start(ctx, "service.save_config", trace.WithAttributes(attribute.String("config.name", configName)))
	defer span.End()

	if err := s.configs.SaveConfig(configName, config); err != nil {
		return fail(span, err)
	}
	s.logger.InfoContext(ctx, "config saved", "config", configName)
	return nil
}

// moveOutcome is what one applied move contributes to a result
type moveOutcome struct {
	step    StepInfo
	merged  []engine.Location
	events  []GameEvent
	message string
}

// applyMove runs one move through the engine and follows it the way every
// caller must: spawn only after a change that did not end the game, and
// consume the merge locations before the next move. Callers hold s.mu.
func (s *gameServiceImpl) applyMove(sess *Session, dir engine.Direction, idx int) moveOutcome {
	eng := sess.Engine
	now := s.now()
	wasOver := eng.IsOver()
	scoreBefore := eng.GetCurrentScore()

	eng.Move(dir)

	merged := eng.GetChangedLocations()
	eng.ClearChanged()

	changed := eng.IsChanged() && !wasOver
	var spawn *engine.Spawn
	if changed && !eng.IsOver() {
		if sp, ok := eng.SpawnTile(); ok {
			spawn = &sp
		}
	}

	out := moveOutcome{
		merged: merged,
		step: StepInfo{
			Idx:         idx,
			Dir:         dir.String(),
			Changed:     changed,
			Merges:      len(merged),
			Spawn:       spawn,
			ScoreBefore: scoreBefore,
			ScoreAfter:  eng.GetCurrentScore(),
		},
	}

	switch {
	case wasOver:
		out.message = "Game is over, reset to play again"
		out.events = append(out.events, GameEvent{Type: EventBlocked, Message: out.message, Timestamp: now})
	case !changed:
		out.message = fmt.Sprintf("Nothing moved %s", dir)
		out.events = append(out.events, GameEvent{Type: EventBlocked, Message: out.message, Timestamp: now})
	default:
		out.message = fmt.Sprintf("Moved %s", dir)
		if len(merged) > 0 {
			out.message = fmt.Sprintf("Moved %s, %d merged", dir, len(merged))
		}
		out.events = append(out.events, GameEvent{Type: EventMove, Message: out.message, Timestamp: now})

		grid := eng.GetGrid()
		for i := range merged {
			loc := merged[i]
			value, _ := grid.Get(loc)
			out.events = append(out.events, GameEvent{
				Type:      EventMerge,
				Message:   fmt.Sprintf("Merged into %d at %s", value, loc),
				Timestamp: now,
				Location:  &loc,
				Value:     value,
			})
		}
		if spawn != nil {
			loc := spawn.Location
			out.events = append(out.events, GameEvent{
				Type:      EventSpawn,
				Message:   fmt.Sprintf("New %d at %s", spawn.Value, loc),
				Timestamp: now,
				Location:  &loc,
				Value:     spawn.Value,
			})
		}
	}

	if eng.IsOver() && !wasOver {
		if eng.IsSuccess() {
			out.step.Victory = true
			out.message = fmt.Sprintf("You Win! Reached %d", eng.GetCurrentScore())
			out.events = append(out.events, GameEvent{Type: EventVictory, Message: out.message, Timestamp: now, Value: eng.GetCurrentScore()})
		} else {
			out.step.GameOver = true
			out.message = "Game Over: no moves left"
			out.events = append(out.events, GameEvent{Type: EventGameOver, Message: out.message, Timestamp: now})
		}
		s.logger.Info("game finished", "session_id", sess.ID, "won", eng.IsSuccess(), "score", eng.GetCurrentScore())
	}

	if !wasOver {
		sess.History = append(sess.History, MoveHistoryEntry{
			MoveNumber: len(sess.History) + 1,
			Direction:  dir.String(),
			Timestamp:  now,
			Changed:    changed,
			Merged:     merged,
			Spawn:      spawn,
			ScoreAfter: eng.GetCurrentScore(),
		})
	}
	return out
}

// resetSession starts a new game and drops the move history. Callers hold s.mu.
func (s *gameServiceImpl) resetSession(sess *Session) GameEvent {
	sess.Engine.Start()
	sess.Engine.ClearChanged()
	sess.History = nil
	return GameEvent{
		Type:      EventReset,
		Message:   "Game reset with a new board",
		Timestamp: s.now(),
	}
}

func (s *gameServiceImpl) sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     s.getConfigID(session.Config.Name),
		Seed:           session.Seed,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}
}

func (s *gameServiceImpl) startSessionSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("session.id", sessionID)))
}

// stopCode names why a finished game stopped
func stopCode(eng *engine.GameEngine) string {
	if eng.IsSuccess() {
		return "victory"
	}
	return "game_over"
}

// fail records err on span and returns it
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
