package engine

import (
	"testing"
)

func sumTiles(values [][]int) int {
	sum := 0
	for _, row := range values {
		for _, v := range row {
			sum += v
		}
	}
	return sum
}

func TestEngine_RandomPlayInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := NewRand(seed)
		e := NewEngineWithDefaults(rng)
		e.Start()

		lastScore, lastBest := 0, 0
		for turn := 0; turn < 500 && !e.IsOver(); turn++ {
			before := e.GetGrid()
			dir := Directions[rng.Intn(len(Directions))]

			e.Move(dir)

			after := e.GetGrid()

			// Merging keeps the total; only spawns add to it
			if sumTiles(after.Values()) != sumTiles(before.Values()) {
				t.Fatalf("seed %d turn %d: move changed the tile sum from %d to %d",
					seed, turn, sumTiles(before.Values()), sumTiles(after.Values()))
			}
			if CountTiles(after.Values()) != CountTiles(before.Values())-len(e.GetChangedLocations()) {
				t.Fatalf("seed %d turn %d: %d merges but tile count went %d -> %d",
					seed, turn, len(e.GetChangedLocations()), CountTiles(before.Values()), CountTiles(after.Values()))
			}
			if e.IsChanged() != after.DiffersFrom(before) {
				t.Fatalf("seed %d turn %d: IsChanged() = %v disagrees with the grid", seed, turn, e.IsChanged())
			}

			for _, loc := range e.GetChangedLocations() {
				if v, _ := after.Get(loc); v < 4 {
					t.Fatalf("seed %d turn %d: merge at %v holds %d", seed, turn, loc, v)
				}
			}

			if e.GetCurrentScore() < lastScore || e.GetBestScore() < lastBest {
				t.Fatalf("seed %d turn %d: score went backwards", seed, turn)
			}
			if e.GetBestScore() < e.GetCurrentScore() {
				t.Fatalf("seed %d turn %d: best score %d below current %d",
					seed, turn, e.GetBestScore(), e.GetCurrentScore())
			}
			lastScore, lastBest = e.GetCurrentScore(), e.GetBestScore()

			if e.IsChanged() && !e.IsOver() {
				spawn, ok := e.SpawnTile()
				if !ok {
					t.Fatalf("seed %d turn %d: a changed grid must have room for a spawn", seed, turn)
				}
				if v, _ := after.Get(spawn.Location); v != 0 {
					t.Fatalf("seed %d turn %d: spawned onto occupied %v", seed, turn, spawn.Location)
				}
			}
			e.ClearChanged()
		}

		if e.IsOver() && !e.IsSuccess() {
			final := e.GetGrid()
			if len(final.EmptyLocations()) != 0 || final.HasMergeablePair() {
				t.Errorf("seed %d: stalemate reported on a playable board:\n%s", seed, final)
			}
		}
	}
}

func TestEngine_StalemateOnlyOnLockedBoard(t *testing.T) {
	rng := NewRand(99)
	e := NewEngineWithDefaults(rng)
	e.Start()

	for turn := 0; turn < 5000 && !e.IsOver(); turn++ {
		moves := e.GetPossibleMoves()
		if len(moves) == 0 {
			// Locked board: the next move must report the stalemate
			e.Move(Up)
			if !e.IsOver() {
				t.Fatal("expected game over once no move is possible")
			}
			break
		}
		e.Move(moves[rng.Intn(len(moves))])
		if !e.IsChanged() {
			t.Fatalf("turn %d: a possible move did not change the grid", turn)
		}
		if !e.IsOver() {
			e.SpawnTile()
		}
	}

	if !e.IsOver() {
		t.Skip("game did not finish within the turn limit")
	}
	if e.CanMove(Left) {
		t.Error("CanMove should be false once the game is over")
	}
}

func TestEngine_BestScoreSurvivesRestart(t *testing.T) {
	e := newTestEngine(t, [][]int{
		{64, 64, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	})
	e.Move(Left)
	if e.GetBestScore() != 128 {
		t.Fatalf("expected best score 128, got %d", e.GetBestScore())
	}

	e.Start()
	e.SetGrid(mustGrid(t, [][]int{
		{8, 8, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}))
	e.Move(Left)

	if e.GetCurrentScore() != 16 {
		t.Errorf("expected current score 16, got %d", e.GetCurrentScore())
	}
	if e.GetBestScore() != 128 {
		t.Errorf("expected best score to stay 128, got %d", e.GetBestScore())
	}
}
