package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/wricardo/tile-merge-game/game/engine"
	"github.com/wricardo/tile-merge-game/game/service"
)

const (
	bannerWin  = "You Win"
	bannerLose = "Game Over"
)

// Play runs an interactive game over r and w until the game ends, the player
// quits or the input runs out. It returns the final state.
func Play(ctx context.Context, r io.Reader, w io.Writer, svc service.GameService, configName string, seed int64) (*engine.GameState, error) {
	info, err := svc.CreateSession(ctx, configName, seed)
	if err != nil {
		return nil, err
	}
	defer svc.DeleteSession(context.WithoutCancel(ctx), info.ID)

	reader := bufio.NewReader(r)
	state := info.GameState

	fmt.Fprintf(w, "=== %s ===\n", info.GameConfig.Name)
	fmt.Fprintf(w, "Reach %d to win. Seed: %d\n", info.GameConfig.WinThreshold, info.Seed)
	fmt.Fprintln(w, "Controls: w=Up, s=Down, a=Left, d=Right, r=Restart, q=Quit")
	fmt.Fprintln(w)

	for {
		if err := ctx.Err(); err != nil {
			return state, err
		}

		render(w, state)

		if state.IsOver {
			if state.IsSuccess {
				fmt.Fprintf(w, "%s! Reached %d\n", bannerWin, state.CurrentScore)
			} else {
				fmt.Fprintf(w, "%s! No moves left\n", bannerLose)
			}
			return state, nil
		}

		fmt.Fprint(w, "Move: ")
		input, err := reader.ReadString('\n')
		if err != nil && input == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(w)
				return state, nil
			}
			return state, err
		}

		input = strings.TrimSpace(strings.ToLower(input))
		switch input {
		case "q":
			fmt.Fprintln(w, "Quit.")
			return state, nil
		case "r":
			state, err = svc.Reset(ctx, info.ID)
			if err != nil {
				return nil, err
			}
			fmt.Fprintln(w, "Restarted.")
			fmt.Fprintln(w)
			continue
		}

		result, err := svc.Move(ctx, info.ID, input, false)
		if errors.Is(err, service.ErrInvalidDirection) {
			fmt.Fprintln(w, "Invalid input. Use w/a/s/d, r to restart or q to quit.")
			continue
		}
		if err != nil {
			return state, err
		}

		state = result.GameState
		if !result.Success && !state.IsOver {
			fmt.Fprintln(w, "Cannot move in that direction.")
		}
		if len(result.Merged) > 0 {
			locs := make([]string, 0, len(result.Merged))
			for _, loc := range result.Merged {
				locs = append(locs, loc.String())
			}
			fmt.Fprintf(w, "Merged at %s\n", strings.Join(locs, " "))
		}
		fmt.Fprintln(w)
	}
}

func render(w io.Writer, state *engine.GameState) {
	if grid, err := engine.NewGridFromRows(state.Grid); err == nil {
		fmt.Fprint(w, grid)
	}
	fmt.Fprintf(w, "Score: %d  Best: %d\n", state.CurrentScore, state.BestScore)
}

// SimulateOptions configures a batch of random games
type SimulateOptions struct {
	Games      int
	Seed       int64
	ConfigName string
	MaxMoves   int // per game, guards against a stuck loop
	Verbose    bool
}

// DefaultSimulateOptions returns ten games on the default rules
func DefaultSimulateOptions() SimulateOptions {
	return SimulateOptions{
		Games:    10,
		Seed:     1,
		MaxMoves: 10000,
	}
}

// GameResult summarizes one simulated game
type GameResult struct {
	Seed    int64
	Won     bool
	MaxTile int
	Moves   int
}

// Summary aggregates a simulation run
type Summary struct {
	Games      int
	Wins       int
	BestTile   int
	TotalMoves int
	TwoSpawns  int
	FourSpawns int
	Results    []GameResult
}

// Simulate plays opts.Games games with uniformly random directions and
// prints a summary to w. Game i is seeded with opts.Seed+i for both spawns
// and move choice, so a run is reproducible.
func Simulate(ctx context.Context, w io.Writer, svc service.GameService, opts SimulateOptions) (*Summary, error) {
	if opts.Games <= 0 {
		return nil, fmt.Errorf("games must be positive, got %d", opts.Games)
	}
	if opts.MaxMoves <= 0 {
		opts.MaxMoves = DefaultSimulateOptions().MaxMoves
	}
	logger := slog.Default().With("component", "console")

	summary := &Summary{}
	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		seed := opts.Seed + int64(i)
		result, err := simulateGame(ctx, svc, opts, seed, summary)
		if err != nil {
			return summary, err
		}

		summary.Games++
		summary.TotalMoves += result.Moves
		summary.Results = append(summary.Results, result)
		if result.Won {
			summary.Wins++
		}
		if result.MaxTile > summary.BestTile {
			summary.BestTile = result.MaxTile
		}

		if opts.Verbose {
			outcome := "lost"
			if result.Won {
				outcome = "won"
			}
			fmt.Fprintf(w, "Game %d (seed %d): %s, max tile %d, %d moves\n", i+1, seed, outcome, result.MaxTile, result.Moves)
		}
		logger.Debug("game simulated", "seed", seed, "won", result.Won, "max_tile", result.MaxTile, "moves", result.Moves)
	}

	printSummary(w, summary)
	return summary, nil
}

func simulateGame(ctx context.Context, svc service.GameService, opts SimulateOptions, seed int64, summary *Summary) (GameResult, error) {
	info, err := svc.CreateSession(ctx, opts.ConfigName, seed)
	if err != nil {
		return GameResult{}, err
	}
	defer svc.DeleteSession(context.WithoutCancel(ctx), info.ID)

	rng := rand.New(rand.NewSource(seed))
	result := GameResult{Seed: info.Seed}
	state := info.GameState

	for !state.IsOver && result.Moves < opts.MaxMoves {
		dir := engine.Directions[rng.Intn(len(engine.Directions))]
		moveResult, err := svc.Move(ctx, info.ID, dir.String(), false)
		if err != nil {
			return result, err
		}
		result.Moves++
		state = moveResult.GameState

		if spawn := moveResult.Spawn; spawn != nil {
			if spawn.Value == 4 {
				summary.FourSpawns++
			} else {
				summary.TwoSpawns++
			}
		}
	}

	result.Won = state.IsSuccess
	result.MaxTile = state.MaxTile
	return result, nil
}

func printSummary(w io.Writer, s *Summary) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Games: %d\n", s.Games)
	fmt.Fprintf(w, "Wins: %d\n", s.Wins)
	fmt.Fprintf(w, "Best Tile: %d\n", s.BestTile)
	fmt.Fprintf(w, "Total Moves: %d\n", s.TotalMoves)
	spawns := s.TwoSpawns + s.FourSpawns
	if spawns > 0 {
		fmt.Fprintf(w, "Spawns: %d twos, %d fours (%.1f%% fours)\n",
			s.TwoSpawns, s.FourSpawns, 100*float64(s.FourSpawns)/float64(spawns))
	}
}
